package hclgraph

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/zclconf/go-cty/cty"
)

// Write emits g as a graph file that Load reads back into an equivalent
// graph. Pool tags are written as plain resource entries, not pool blocks.
func Write(w io.Writer, g *dag.Graph) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	order, err := g.TopoOrder()
	if err != nil {
		return err
	}
	for i, id := range order {
		l, _ := g.Layer(id)
		deps, err := g.Dependencies(id)
		if err != nil {
			return err
		}
		if i > 0 {
			body.AppendNewline()
		}
		if err := writeLayer(body.AppendNewBlock("layer", []string{id}).Body(), l, deps); err != nil {
			return fmt.Errorf("layer %q: %w", id, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func writeLayer(body *hclwrite.Body, l *layer.Layer, deps []string) error {
	body.SetAttributeValue("keys", cty.NumberIntVal(int64(l.Keys)))
	if len(deps) > 0 {
		body.SetAttributeValue("depends_on", stringList(deps))
	}
	if len(l.Resources) > 0 {
		resources := make(map[string]cty.Value, len(l.Resources))
		for k, v := range l.Resources {
			resources[k] = cty.NumberFloatVal(v)
		}
		body.SetAttributeValue("resources", cty.ObjectVal(resources))
	}
	if len(l.Annotations) > 0 {
		v, err := toCty(l.Annotations)
		if err != nil {
			return fmt.Errorf("annotations: %w", err)
		}
		body.SetAttributeValue("annotations", v)
	}

	if l.Size == nil {
		return nil
	}
	if l.Size.Shape != nil {
		arr := body.AppendNewBlock("array", nil).Body()
		arr.SetAttributeValue("shape", shapeValue(l.Size.Shape))
		arr.SetAttributeValue("dtype", cty.StringVal(string(l.Size.DType)))
		return nil
	}
	if l.Size.Columns != nil {
		df := body.AppendNewBlock("dataframe", nil).Body()
		df.SetAttributeValue("partitions", cty.NumberIntVal(int64(l.Size.Partitions)))
		columns := make(map[string]cty.Value, len(l.Size.Columns))
		for name, dt := range l.Size.Columns {
			columns[name] = cty.StringVal(string(dt))
		}
		if len(columns) == 0 {
			df.SetAttributeValue("columns", cty.EmptyObjectVal)
		} else {
			df.SetAttributeValue("columns", cty.ObjectVal(columns))
		}
	}
	return nil
}

func stringList(items []string) cty.Value {
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

func shapeValue(shape []float64) cty.Value {
	if len(shape) == 0 {
		return cty.EmptyTupleVal
	}
	vals := make([]cty.Value, len(shape))
	for i, dim := range shape {
		if math.IsNaN(dim) {
			vals[i] = cty.NullVal(cty.Number)
			continue
		}
		vals[i] = cty.NumberFloatVal(dim)
	}
	return cty.TupleVal(vals)
}

// toCty is the inverse of toGo for the value kinds layers carry in
// annotations.
func toCty(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case []string:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return stringList(t), nil
	case []any:
		vals := make([]cty.Value, len(t))
		for i, item := range t {
			cv, err := toCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = cv
		}
		return cty.TupleVal(vals), nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make(map[string]cty.Value, len(t))
		for _, k := range keys {
			cv, err := toCty(t[k])
			if err != nil {
				return cty.NilVal, fmt.Errorf("%s: %w", k, err)
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported annotation type %T", v)
}
