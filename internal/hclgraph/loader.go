package hclgraph

import (
	"context"
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/poolprop/internal/builder"
	"github.com/specialistvlad/poolprop/internal/ctxlog"
	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/fsutil"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Extension is the file extension of graph files.
const Extension = ".hcl"

// Load reads every graph file under paths into a single graph. A layer may
// depend on layers declared in other files.
func Load(ctx context.Context, paths ...string) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", Extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	b := builder.New()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := decodeBody(hclFile.Body, b); err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
	}

	g, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "files", len(files), "layers", g.Len())
	return g, nil
}

// Parse reads a single graph document held in memory. filename is only used
// in diagnostics.
func Parse(ctx context.Context, src []byte, filename string) (*dag.Graph, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	b := builder.New()
	if err := decodeBody(hclFile.Body, b); err != nil {
		return nil, fmt.Errorf("failed to decode HCL %s: %w", filename, err)
	}
	return b.Build(ctx)
}

func decodeBody(body hcl.Body, b *builder.Builder) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return diags
	}
	return addBlocks(b, root.Layers, root.Pools)
}

func addBlocks(b *builder.Builder, layers []*layerBlock, pools []*poolBlock) error {
	for _, lb := range layers {
		l, err := translateLayer(lb)
		if err != nil {
			return err
		}
		if err := b.Add(l, lb.DependsOn...); err != nil {
			return err
		}
	}
	for _, pb := range pools {
		err := b.WithPool(pb.Name, func(b *builder.Builder) error {
			return addBlocks(b, pb.Layers, pb.Pools)
		})
		if err != nil {
			return fmt.Errorf("pool %q: %w", pb.Name, err)
		}
	}
	return nil
}

func translateLayer(lb *layerBlock) (*layer.Layer, error) {
	keys := 1
	if lb.Keys != nil {
		keys = *lb.Keys
	}
	if keys < 0 {
		return nil, fmt.Errorf("layer %q: keys must not be negative, got %d", lb.ID, keys)
	}

	l := layer.New(lb.ID, keys)
	if len(lb.Resources) > 0 {
		l.Resources = lb.Resources
	}

	annotations, err := toGo(lb.Annotations)
	if err != nil {
		return nil, fmt.Errorf("layer %q annotations: %w", lb.ID, err)
	}
	if annotations != nil {
		m, ok := annotations.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("layer %q: annotations must be an object", lb.ID)
		}
		l.Annotations = m
	}

	switch {
	case lb.Array != nil && lb.Dataframe != nil:
		return nil, fmt.Errorf("layer %q: array and dataframe blocks are mutually exclusive", lb.ID)
	case lb.Array != nil:
		hint, err := translateArray(lb.Array)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", lb.ID, err)
		}
		l.Size = hint
	case lb.Dataframe != nil:
		hint, err := translateDataframe(lb.Dataframe)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", lb.ID, err)
		}
		l.Size = hint
	}
	return l, nil
}

func translateArray(ab *arrayBlock) (*layer.SizeHint, error) {
	dtype, err := layer.ParseDType(ab.DType)
	if err != nil {
		return nil, err
	}
	if ab.Shape.IsNull() || !ab.Shape.CanIterateElements() || ab.Shape.Type().IsMapType() || ab.Shape.Type().IsObjectType() {
		return nil, fmt.Errorf("array shape must be a list")
	}

	shape := make([]float64, 0, ab.Shape.LengthInt())
	for it := ab.Shape.ElementIterator(); it.Next(); {
		_, v := it.Element()
		if v.IsNull() {
			shape = append(shape, math.NaN())
			continue
		}
		var dim float64
		if err := gocty.FromCtyValue(v, &dim); err != nil {
			return nil, fmt.Errorf("array shape: %w", err)
		}
		shape = append(shape, dim)
	}
	return layer.ArrayHint(dtype, shape...), nil
}

func translateDataframe(db *dataframeBlock) (*layer.SizeHint, error) {
	if db.Partitions < 0 {
		return nil, fmt.Errorf("dataframe partitions must not be negative, got %d", db.Partitions)
	}
	columns := make(map[string]layer.DType, len(db.Columns))
	for name, raw := range db.Columns {
		dtype, err := layer.ParseDType(raw)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		columns[name] = dtype
	}
	return layer.TableHint(db.Partitions, columns), nil
}

// toGo converts a known cty value into plain Go values: string, float64,
// bool, []any and map[string]any. Null converts to nil.
func toGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			conv, err := toGo(ev)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.AsString(), err)
			}
			out[k.AsString()] = conv
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			conv, err := toGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, conv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
