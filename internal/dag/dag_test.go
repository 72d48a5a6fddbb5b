package dag

import (
	"testing"

	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds a -> b, a -> c, b -> d, c -> d.
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, g.AddLayer(layer.New(id, 1)))
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("a", "c"))
	require.NoError(t, g.AddEdge("b", "d"))
	require.NoError(t, g.AddEdge("c", "d"))
	return g
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.layers)
	assert.Empty(t, g.layers)
	assert.Zero(t, g.Len())
}

func TestAddLayer(t *testing.T) {
	g := New()
	a := layer.New("a", 1)

	require.NoError(t, g.AddLayer(a))
	assert.Len(t, g.layers, 1)

	require.NoError(t, g.AddLayer(a), "adding the same layer is idempotent")
	assert.Len(t, g.layers, 1)

	err := g.AddLayer(layer.New("a", 2))
	assert.ErrorIs(t, err, ErrDuplicateLayer)

	assert.Error(t, g.AddLayer(&layer.Layer{}))
	assert.Error(t, g.AddLayer(nil))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		require.NoError(t, g.AddLayer(layer.New("a", 1)))
		require.NoError(t, g.AddLayer(layer.New("b", 1)))

		require.NoError(t, g.AddEdge("a", "b")) // b reads from a

		assert.Contains(t, g.dependents["a"], "b")
		assert.Contains(t, g.deps["b"], "a")
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		require.NoError(t, g.AddLayer(layer.New("a", 1)))

		err := g.AddEdge("dne", "a")
		assert.ErrorIs(t, err, ErrUnknownLayer)
		assert.ErrorContains(t, err, "source")

		err = g.AddEdge("a", "dne")
		assert.ErrorIs(t, err, ErrUnknownLayer)
		assert.ErrorContains(t, err, "destination")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestViews(t *testing.T) {
	g := diamond(t)

	deps, err := g.Dependencies("d")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, deps)

	dependents, err := g.Dependents("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, dependents)

	deps, err = g.Dependencies("a")
	require.NoError(t, err)
	assert.Empty(t, deps)

	_, err = g.Dependencies("zzz")
	assert.ErrorIs(t, err, ErrUnknownLayer)
	_, err = g.Dependents("zzz")
	assert.ErrorIs(t, err, ErrUnknownLayer)

	assert.Equal(t, []string{"a", "b", "c", "d"}, g.IDs())
	assert.Equal(t, []string{"d"}, g.Sinks())
}

func TestCloneAndReplace(t *testing.T) {
	g := diamond(t)
	c := g.Clone()

	origB, _ := g.Layer("b")
	cloneB, _ := c.Layer("b")
	assert.Same(t, origB, cloneB, "clones share layer values")

	replacement := origB.WithPool("x")
	require.NoError(t, c.Replace(replacement))

	got, _ := c.Layer("b")
	assert.Same(t, replacement, got)
	got, _ = g.Layer("b")
	assert.Same(t, origB, got, "replacing in a clone leaves the original alone")

	// Topology is copied, not shared.
	require.NoError(t, c.AddLayer(layer.New("e", 1)))
	require.NoError(t, c.AddEdge("d", "e"))
	assert.Equal(t, []string{"d"}, g.Sinks())
	assert.Equal(t, []string{"e"}, c.Sinks())

	err := c.Replace(layer.New("nope", 1))
	assert.ErrorIs(t, err, ErrUnknownLayer)
}

func TestMerge(t *testing.T) {
	g1 := diamond(t)

	g2 := g1.Clone()
	require.NoError(t, g2.AddLayer(layer.New("e", 1)))
	require.NoError(t, g2.AddEdge("b", "e"))

	m, err := Merge(g1, g2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, m.IDs())
	assert.Equal(t, []string{"d", "e"}, m.Sinks())

	deps, err := m.Dependencies("e")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, deps)

	conflicting := New()
	require.NoError(t, conflicting.AddLayer(layer.New("a", 99)))
	_, err = Merge(g1, conflicting)
	assert.ErrorIs(t, err, ErrDuplicateLayer)
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("diamond has no cycles", func(t *testing.T) {
		assert.NoError(t, diamond(t).DetectCycles())
	})

	t.Run("cycle is reported", func(t *testing.T) {
		g := diamond(t)
		require.NoError(t, g.AddEdge("d", "a"))
		err := g.DetectCycles()
		assert.ErrorIs(t, err, ErrCycle)
	})
}

func TestTopoOrder(t *testing.T) {
	order, err := diamond(t).TopoOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)

	g := diamond(t)
	require.NoError(t, g.AddEdge("d", "b"))
	_, err = g.TopoOrder()
	assert.ErrorIs(t, err, ErrCycle)
}
