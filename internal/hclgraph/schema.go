package hclgraph

import (
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is used to decode the top-level blocks of any graph file.
type fileRoot struct {
	Layers []*layerBlock `hcl:"layer,block"`
	Pools  []*poolBlock  `hcl:"pool,block"`
}

// poolBlock tags every layer declared inside it. Pool blocks nest; the
// innermost one wins.
type poolBlock struct {
	Name   string        `hcl:"name,label"`
	Layers []*layerBlock `hcl:"layer,block"`
	Pools  []*poolBlock  `hcl:"pool,block"`
}

type layerBlock struct {
	ID          string             `hcl:"id,label"`
	Keys        *int               `hcl:"keys,optional"`
	DependsOn   []string           `hcl:"depends_on,optional"`
	Resources   map[string]float64 `hcl:"resources,optional"`
	Annotations cty.Value          `hcl:"annotations,optional"`
	Array       *arrayBlock        `hcl:"array,block"`
	Dataframe   *dataframeBlock    `hcl:"dataframe,block"`
}

// arrayBlock describes an array output. Shape entries may be null for
// dimensions that are not known yet.
type arrayBlock struct {
	Shape cty.Value `hcl:"shape"`
	DType string    `hcl:"dtype"`
}

type dataframeBlock struct {
	Partitions int               `hcl:"partitions"`
	Columns    map[string]string `hcl:"columns"`
}
