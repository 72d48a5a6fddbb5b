package app

import (
	"io"

	"github.com/specialistvlad/poolprop/internal/handlers"
	"github.com/specialistvlad/poolprop/internal/hclgraph"
	"github.com/specialistvlad/poolprop/internal/visualize"
)

// Formats lists the output formats Run can write.
func Formats() []string {
	return coreHandlers().Formats()
}

// coreHandlers returns the output handlers for every format NewConfig accepts.
func coreHandlers() *handlers.Handlers {
	h := handlers.New()
	h.RegisterHandler(FormatTable, func(w io.Writer, r handlers.Result) error {
		return visualize.WriteTable(w, r.Plan.Graph)
	})
	h.RegisterHandler(FormatYAML, writeReport)
	h.RegisterHandler(FormatHCL, func(w io.Writer, r handlers.Result) error {
		return hclgraph.Write(w, r.Plan.Graph)
	})
	h.RegisterHandler(FormatDOT, func(w io.Writer, r handlers.Result) error {
		return visualize.WriteDOT(w, r.Plan.Graph)
	})
	return h
}
