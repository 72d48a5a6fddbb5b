package testutil

import (
	"strings"
	"testing"

	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/specialistvlad/poolprop/internal/pool"
	"github.com/stretchr/testify/require"
)

// Layer returns a one-key layer tagged with poolName, or untagged when
// poolName is empty. Its output is a single float64 so that sizes are known.
func Layer(id, poolName string) *layer.Layer {
	l := layer.New(id, 1)
	l.Size = layer.ArrayHint(layer.Float64, 1)
	if poolName != "" {
		l.Resources = pool.WithResource(nil, pool.MustNew(poolName))
	}
	return l
}

// Graph builds a graph from layers and edges written as "from->to". Edges may
// be chained: "a->b->c" adds a->b and b->c. Any failure stops the test.
func Graph(t *testing.T, layers []*layer.Layer, edges ...string) *dag.Graph {
	t.Helper()

	g := dag.New()
	for _, l := range layers {
		require.NoError(t, g.AddLayer(l))
	}
	for _, edge := range edges {
		ids := strings.Split(edge, "->")
		require.GreaterOrEqual(t, len(ids), 2, "malformed edge %q", edge)
		for i := 0; i+1 < len(ids); i++ {
			from, to := strings.TrimSpace(ids[i]), strings.TrimSpace(ids[i+1])
			require.NoError(t, g.AddEdge(from, to), "edge %s->%s", from, to)
		}
	}
	return g
}

// Pools returns the pool name of every layer, "" for untagged ones.
func Pools(t *testing.T, g *dag.Graph) map[string]string {
	t.Helper()

	out := make(map[string]string, g.Len())
	for _, id := range g.IDs() {
		l, _ := g.Layer(id)
		p, err := l.Pool()
		require.NoError(t, err, "layer %q", id)
		out[id] = p.String()
	}
	return out
}
