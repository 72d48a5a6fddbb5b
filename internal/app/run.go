package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/handlers"
	"github.com/specialistvlad/poolprop/internal/hclgraph"
	"github.com/specialistvlad/poolprop/internal/visualize"
)

// Run loads the configured graphs, propagates pools and writes the result in
// the configured format.
func (a *App) Run(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Run method started.", "paths", a.config.Paths, "format", a.config.Format)

	g, err := hclgraph.Load(ctx, a.config.Paths...)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	plan, err := a.sched.Submit(ctx, g)
	if err != nil {
		return fmt.Errorf("failed to propagate pools: %w", err)
	}

	result := handlers.Result{RunID: a.runID, Plan: plan}
	err = a.writeOutput(func(w io.Writer) error {
		return a.handlers.Render(w, a.config.Format, result)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s output: %w", a.config.Format, err)
	}

	if err := a.writeMetrics(); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// Visualize loads every configured path as a graph of its own, merges them,
// propagates pools over the union and writes it as DOT. Layer ids must be
// unique across the paths.
func (a *App) Visualize(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Visualize method started.", "paths", a.config.Paths)

	graphs := make([]*dag.Graph, 0, len(a.config.Paths))
	for _, path := range a.config.Paths {
		g, err := hclgraph.Load(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to load graph %q: %w", path, err)
		}
		graphs = append(graphs, g)
	}

	err := a.writeOutput(func(w io.Writer) error {
		return visualize.Pools(ctx, w, graphs...)
	})
	if err != nil {
		return fmt.Errorf("failed to visualize pools: %w", err)
	}

	if err := a.writeMetrics(); err != nil {
		return err
	}
	a.logger.Debug("App.Visualize method finished.")
	return nil
}

func (a *App) writeOutput(render func(w io.Writer) error) (err error) {
	w := a.outW
	if a.config.OutputPath != "" {
		f, createErr := os.Create(a.config.OutputPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return render(w)
}

func (a *App) writeMetrics() error {
	if a.config.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.config.MetricsFile, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	a.logger.Debug("Metrics written.", "path", a.config.MetricsFile)
	return nil
}
