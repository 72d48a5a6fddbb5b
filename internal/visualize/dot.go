package visualize

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/specialistvlad/poolprop/internal/propagate"
)

// AnyPool is shown for layers without a pool.
const AnyPool = "Any pool"

// Label returns the two-line caption of l: its id, then its pool or AnyPool.
func Label(l *layer.Layer) (string, error) {
	p, err := l.Pool()
	if err != nil {
		return "", fmt.Errorf("layer %q: %w", l.ID, err)
	}
	name := p.String()
	if p.IsNone() {
		name = AnyPool
	}
	return l.ID + "\n" + name, nil
}

// WriteDOT writes g as a Graphviz digraph. Every layer is labelled with Label
// and tagged layers are outlined in their pool's color. Layers and edges are
// written in id order.
func WriteDOT(w io.Writer, g *dag.Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph {")
	fmt.Fprintln(bw, "\trankdir=BT;")
	for _, id := range g.IDs() {
		l, _ := g.Layer(id)
		label, err := Label(l)
		if err != nil {
			return err
		}
		p, _ := l.Pool()

		attrs := []string{"label=" + quote(label), "shape=box"}
		if c := Color(p); c != "" {
			attrs = append(attrs, "color="+quote(c), "penwidth=3")
		}
		fmt.Fprintf(bw, "\t%s [%s];\n", quote(id), strings.Join(attrs, ", "))
	}
	for _, id := range g.IDs() {
		deps, err := g.Dependencies(id)
		if err != nil {
			return err
		}
		for _, dep := range deps {
			fmt.Fprintf(bw, "\t%s -> %s;\n", quote(dep), quote(id))
		}
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

// Pools merges graphs, propagates pools over the union and writes it as DOT.
func Pools(ctx context.Context, w io.Writer, graphs ...*dag.Graph) error {
	merged, err := dag.Merge(graphs...)
	if err != nil {
		return fmt.Errorf("merging graphs: %w", err)
	}
	out, err := propagate.Propagate(ctx, merged)
	if err != nil {
		return err
	}
	return WriteDOT(w, out)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
