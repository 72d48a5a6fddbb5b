// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package layer

import (
	"fmt"
	"math"
)

// DType names the element type of an array or of a table column.
type DType string

const (
	Bool       DType = "bool"
	Int8       DType = "int8"
	Int16      DType = "int16"
	Int32      DType = "int32"
	Int64      DType = "int64"
	Uint8      DType = "uint8"
	Uint16     DType = "uint16"
	Uint32     DType = "uint32"
	Uint64     DType = "uint64"
	Float16    DType = "float16"
	Float32    DType = "float32"
	Float64    DType = "float64"
	Complex64  DType = "complex64"
	Complex128 DType = "complex128"
	Datetime64 DType = "datetime64"
	Timedelta  DType = "timedelta64"
	Object     DType = "object"
	String     DType = "string"
)

// VariableColumnWidth is the nominal per-partition width of a table column
// whose element type has no fixed size.
const VariableColumnWidth = 1024

// itemSizes is the element width in bytes. Variable-width types report the
// size of a reference.
var itemSizes = map[DType]int{
	Bool:       1,
	Int8:       1,
	Uint8:      1,
	Int16:      2,
	Uint16:     2,
	Float16:    2,
	Int32:      4,
	Uint32:     4,
	Float32:    4,
	Int64:      8,
	Uint64:     8,
	Float64:    8,
	Complex64:  8,
	Datetime64: 8,
	Timedelta:  8,
	Complex128: 16,
	Object:     8,
	String:     8,
}

// ParseDType validates a dtype name.
func ParseDType(s string) (DType, error) {
	d := DType(s)
	if _, ok := itemSizes[d]; !ok {
		return "", fmt.Errorf("unknown dtype %q", s)
	}
	return d, nil
}

// ItemSize returns the width of one element, and false for unknown dtypes.
func (d DType) ItemSize() (int, bool) {
	n, ok := itemSizes[d]
	return n, ok
}

// Variable reports whether elements of d have no fixed width.
func (d DType) Variable() bool {
	return d == Object || d == String
}

// SizeHint is the output shape metadata used for size estimation. A hint
// describes either an array (Shape and DType) or a table (Partitions and
// Columns); the array form is tried first.
type SizeHint struct {
	// Shape lists dimension sizes. NaN marks an unknown dimension.
	Shape []float64
	DType DType

	Partitions int
	Columns    map[string]DType
}

// ArrayHint describes an array output.
func ArrayHint(dtype DType, shape ...float64) *SizeHint {
	if shape == nil {
		shape = []float64{}
	}
	return &SizeHint{Shape: shape, DType: dtype}
}

// TableHint describes a partitioned table output.
func TableHint(partitions int, columns map[string]DType) *SizeHint {
	if columns == nil {
		columns = map[string]DType{}
	}
	return &SizeHint{Partitions: partitions, Columns: columns}
}

// EstimateBytes estimates the total bytes a layer produces. The second
// result is false when the size is unknown.
//
// Row counts of table partitions are not known at graph level, so a table
// estimate is the width of one row per partition. It is only comparable to
// other estimates, not to real memory use.
//
// Estimates that do not fit in an int64 are clamped to math.MaxInt64.
func EstimateBytes(l *Layer) (int64, bool) {
	if l == nil || l.Size == nil {
		return 0, false
	}
	if n, ok := l.Size.arrayBytes(); ok {
		return n, true
	}
	return l.Size.tableBytes()
}

func (h *SizeHint) arrayBytes() (int64, bool) {
	if h.Shape == nil || h.DType == "" {
		return 0, false
	}
	itemSize, ok := h.DType.ItemSize()
	if !ok {
		return 0, false
	}
	size := 1.0
	for _, dim := range h.Shape {
		if math.IsNaN(dim) || math.IsInf(dim, 0) || dim < 0 {
			return 0, false
		}
		size *= dim
	}
	return clampBytes(size * float64(itemSize)), true
}

// clampBytes converts a float byte count to int64. float64(math.MaxInt64)
// rounds up to 2^63, so the bound has to be inclusive.
func clampBytes(total float64) int64 {
	if total >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(total)
}

func (h *SizeHint) tableBytes() (int64, bool) {
	if h.Columns == nil || h.Partitions < 0 {
		return 0, false
	}
	var width float64
	for _, dt := range h.Columns {
		if dt.Variable() {
			width += VariableColumnWidth
			continue
		}
		n, ok := dt.ItemSize()
		if !ok {
			return 0, false
		}
		width += float64(n)
	}
	return clampBytes(width * float64(h.Partitions)), true
}
