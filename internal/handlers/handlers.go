// Package handlers keeps the output format handlers a run can render its
// result with, keyed by format name.
package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/specialistvlad/poolprop/internal/scheduler"
)

// Result is what a handler renders.
type Result struct {
	RunID string
	Plan  *scheduler.Plan
}

// Handler writes a Result in one output format.
type Handler func(w io.Writer, r Result) error

// Handlers holds all the registered handlers
type Handlers struct {
	all map[string]Handler
}

// New creates and initializes a new Handlers instance.
func New() *Handlers {
	return &Handlers{
		all: make(map[string]Handler),
	}
}

// RegisterHandler registers the handler for a format. Registering a format
// twice is a programming error and panics.
func (h *Handlers) RegisterHandler(format string, fn Handler) {
	if _, exists := h.all[format]; exists {
		panic(fmt.Sprintf("output handler for format '%s' already registered", format))
	}
	slog.Debug("Registering output handler.", "format", format)
	h.all[format] = fn
}

// Handler returns the handler registered for format.
func (h *Handlers) Handler(format string) (Handler, bool) {
	fn, ok := h.all[format]
	return fn, ok
}

// Formats returns the registered format names in ascending order.
func (h *Handlers) Formats() []string {
	out := make([]string, 0, len(h.all))
	for name := range h.all {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Render writes r with the handler registered for format.
func (h *Handlers) Render(w io.Writer, format string, r Result) error {
	fn, ok := h.Handler(format)
	if !ok {
		return fmt.Errorf("no output handler for format %q", format)
	}
	return fn(w, r)
}
