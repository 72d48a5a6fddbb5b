package propagate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/poolprop/internal/ctxlog"
	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/specialistvlad/poolprop/internal/pool"
	"github.com/specialistvlad/poolprop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagate_Scenarios(t *testing.T) {
	testCases := []struct {
		name     string
		layers   []*layer.Layer
		edges    []string
		expected map[string]string
	}{
		{
			name: "basic chain",
			layers: []*layer.Layer{
				testutil.Layer("a", "p1"),
				testutil.Layer("a2", ""),
				testutil.Layer("b", ""),
				testutil.Layer("c", ""),
				testutil.Layer("d", ""),
			},
			edges:    []string{"a->a2->c->d", "b->c"},
			expected: map[string]string{"a": "p1", "a2": "p1", "b": "", "c": "p1", "d": "p1"},
		},
		{
			name: "balanced sum of two pools",
			layers: []*layer.Layer{
				testutil.Layer("a", "a"),
				testutil.Layer("b", "b"),
				testutil.Layer("c", ""),
			},
			edges:    []string{"a->c", "b->c"},
			expected: map[string]string{"a": "a", "b": "b", "c": ""},
		},
		{
			name: "no tags anywhere",
			layers: []*layer.Layer{
				testutil.Layer("a", ""),
				testutil.Layer("b", ""),
				testutil.Layer("c", ""),
			},
			edges:    []string{"a->b->c"},
			expected: map[string]string{"a": "", "b": "", "c": ""},
		},
		{
			name: "diamond",
			layers: []*layer.Layer{
				testutil.Layer("A", "x"),
				testutil.Layer("B", ""),
				testutil.Layer("C", ""),
				testutil.Layer("D", ""),
			},
			edges:    []string{"A->B->D", "A->C->D"},
			expected: map[string]string{"A": "x", "B": "x", "C": "x", "D": "x"},
		},
		{
			name: "roots never inherit",
			layers: []*layer.Layer{
				testutil.Layer("root", ""),
				testutil.Layer("tagged", "gpu"),
				testutil.Layer("sink", ""),
			},
			edges:    []string{"root->tagged->sink"},
			expected: map[string]string{"root": "", "tagged": "gpu", "sink": "gpu"},
		},
		{
			name: "explicit tag is kept against its inputs",
			layers: []*layer.Layer{
				testutil.Layer("a", "cpu"),
				testutil.Layer("b", "gpu"),
			},
			edges:    []string{"a->b"},
			expected: map[string]string{"a": "cpu", "b": "gpu"},
		},
		{
			name: "untagged input does not dilute a single pool",
			layers: []*layer.Layer{
				testutil.Layer("a", "cpu"),
				testutil.Layer("b", ""),
				testutil.Layer("c", ""),
			},
			edges:    []string{"a->c", "b->c"},
			expected: map[string]string{"a": "cpu", "b": "", "c": "cpu"},
		},
		{
			name: "layers above an explicit tag are left alone",
			layers: []*layer.Layer{
				testutil.Layer("src", "io"),
				testutil.Layer("mid", ""),
				testutil.Layer("out", "gpu"),
			},
			edges:    []string{"src->mid->out"},
			expected: map[string]string{"src": "io", "mid": "", "out": "gpu"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := testutil.Graph(t, tc.layers, tc.edges...)

			out, err := Propagate(context.Background(), g)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.expected, testutil.Pools(t, out)); diff != "" {
				t.Errorf("pools mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPropagate_DominantPool(t *testing.T) {
	big := testutil.Layer("big", "gpu")
	big.Size = layer.ArrayHint(layer.Float64, 1000, 1000)
	small := testutil.Layer("small", "cpu")
	small.Size = layer.ArrayHint(layer.Float64, 10)

	g := testutil.Graph(t,
		[]*layer.Layer{big, small, testutil.Layer("join", "")},
		"big->join", "small->join",
	)

	out, err := Propagate(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, "gpu", testutil.Pools(t, out)["join"])
}

func TestPropagate_Idempotent(t *testing.T) {
	g := testutil.Graph(t,
		[]*layer.Layer{
			testutil.Layer("a", "p1"),
			testutil.Layer("b", "p2"),
			testutil.Layer("c", ""),
			testutil.Layer("d", ""),
			testutil.Layer("e", ""),
		},
		"a->c->e", "b->d->e", "a->d",
	)

	once, err := Propagate(context.Background(), g)
	require.NoError(t, err)
	twice, err := Propagate(context.Background(), once)
	require.NoError(t, err)

	assert.Equal(t, testutil.Pools(t, once), testutil.Pools(t, twice))
}

func TestPropagate_InputUntouched(t *testing.T) {
	a := testutil.Layer("a", "p1")
	b := testutil.Layer("b", "")
	g := testutil.Graph(t, []*layer.Layer{a, b}, "a->b")

	out, err := Propagate(context.Background(), g)
	require.NoError(t, err)

	got, _ := g.Layer("b")
	assert.Same(t, b, got, "input graph must keep the original layer")
	assert.Nil(t, b.Resources, "original layer must not be modified")

	tagged, _ := out.Layer("b")
	assert.NotSame(t, b, tagged)
	shared, _ := out.Layer("a")
	assert.Same(t, a, shared, "unchanged layers are shared")
}

func TestPropagate_KeepsOtherResources(t *testing.T) {
	b := testutil.Layer("b", "")
	b.Resources = map[string]float64{"GPU": 2}
	g := testutil.Graph(t, []*layer.Layer{testutil.Layer("a", "p1"), b}, "a->b")

	out, err := Propagate(context.Background(), g)
	require.NoError(t, err)

	tagged, _ := out.Layer("b")
	assert.Equal(t, map[string]float64{"GPU": 2, "pool-p1": pool.Placeholder}, tagged.Resources)
}

func TestPropagate_AmbiguousTag(t *testing.T) {
	bad := testutil.Layer("bad", "")
	bad.Resources = map[string]float64{"pool-a": 1, "pool-b": 1}
	g := testutil.Graph(t,
		[]*layer.Layer{testutil.Layer("a", "a"), bad, testutil.Layer("c", "")},
		"a->bad->c",
	)

	_, err := Propagate(context.Background(), g)
	require.ErrorIs(t, err, pool.ErrAmbiguousPool)
	assert.Contains(t, err.Error(), `"bad"`)
}

func TestPropagate_Cycle(t *testing.T) {
	t.Run("cycle below a sink", func(t *testing.T) {
		g := testutil.Graph(t,
			[]*layer.Layer{testutil.Layer("a", ""), testutil.Layer("b", ""), testutil.Layer("c", "")},
			"a->b->a", "b->c",
		)
		_, err := Propagate(context.Background(), g)
		require.ErrorIs(t, err, ErrCycle)
	})

	t.Run("graph without sinks", func(t *testing.T) {
		g := testutil.Graph(t,
			[]*layer.Layer{testutil.Layer("a", ""), testutil.Layer("b", "")},
			"a->b->a",
		)
		_, err := Propagate(context.Background(), g)
		require.ErrorIs(t, err, ErrCycle)
	})
}

func TestPropagate_LongChain(t *testing.T) {
	const n = 100_000

	g := dag.New()
	require.NoError(t, g.AddLayer(testutil.Layer("l0", "deep")))
	for i := 1; i < n; i++ {
		id := fmt.Sprintf("l%d", i)
		require.NoError(t, g.AddLayer(testutil.Layer(id, "")))
		require.NoError(t, g.AddEdge(fmt.Sprintf("l%d", i-1), id))
	}

	out, stats, err := Run(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, n, stats.Visited)
	assert.Equal(t, n-1, stats.Tagged)

	last, _ := out.Layer(fmt.Sprintf("l%d", n-1))
	p, err := last.Pool()
	require.NoError(t, err)
	assert.Equal(t, pool.MustNew("deep"), p)
}

func TestRun_Stats(t *testing.T) {
	g := testutil.Graph(t,
		[]*layer.Layer{
			testutil.Layer("a", "a"),
			testutil.Layer("b", "b"),
			testutil.Layer("c", ""),
			testutil.Layer("d", ""),
		},
		"a->c->d", "b->c",
	)

	_, stats, err := Run(context.Background(), g)
	require.NoError(t, err)

	expected := Stats{Visited: 4, Explicit: 2, Tagged: 0, Unconstrained: 1}
	if diff := cmp.Diff(expected, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_DiamondVisitsSharedInputOnce(t *testing.T) {
	g := testutil.Graph(t,
		[]*layer.Layer{
			testutil.Layer("A", "x"),
			testutil.Layer("B", ""),
			testutil.Layer("C", ""),
			testutil.Layer("D", ""),
		},
		"A->B->D", "A->C->D",
	)

	out, stats, err := Run(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "x", "B": "x", "C": "x", "D": "x"}, testutil.Pools(t, out))

	expected := Stats{Visited: 4, Explicit: 1, Tagged: 3}
	if diff := cmp.Diff(expected, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_LogsAssignments(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	g := testutil.Graph(t, []*layer.Layer{testutil.Layer("a", "p1"), testutil.Layer("b", "")}, "a->b")
	_, err := Propagate(ctx, g)
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, `msg="Layer assigned to pool."`)
	assert.Contains(t, logs, "layer=b")
	assert.Contains(t, logs, "pool=p1")
	assert.Contains(t, logs, `msg="Pool propagation finished."`)
}

func TestAssignments(t *testing.T) {
	g := testutil.Graph(t, []*layer.Layer{testutil.Layer("a", "p1"), testutil.Layer("b", "")}, "a->b")

	got, err := Assignments(g)
	require.NoError(t, err)
	assert.Equal(t, map[string]pool.Pool{"a": "p1", "b": pool.None}, got)
}
