package app

import (
	"io"

	"github.com/specialistvlad/poolprop/internal/handlers"
	"github.com/specialistvlad/poolprop/internal/propagate"
	"github.com/specialistvlad/poolprop/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// Report is the yaml form of a run.
type Report struct {
	RunID  string        `yaml:"run_id"`
	Layers []LayerReport `yaml:"layers"`
	Waves  [][]string    `yaml:"waves"`
}

// LayerReport describes one layer. Pool is empty for unconstrained layers.
type LayerReport struct {
	ID        string   `yaml:"id"`
	Pool      string   `yaml:"pool,omitempty"`
	DependsOn []string `yaml:"depends_on,omitempty"`
}

func buildReport(runID string, plan *scheduler.Plan) (*Report, error) {
	g := plan.Graph
	pools, err := propagate.Assignments(g)
	if err != nil {
		return nil, err
	}
	report := &Report{RunID: runID, Waves: plan.Waves}
	for _, id := range g.IDs() {
		deps, err := g.Dependencies(id)
		if err != nil {
			return nil, err
		}
		report.Layers = append(report.Layers, LayerReport{ID: id, Pool: pools[id].String(), DependsOn: deps})
	}
	return report, nil
}

func writeReport(w io.Writer, r handlers.Result) error {
	report, err := buildReport(r.RunID, r.Plan)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
