package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/specialistvlad/poolprop/internal/pool"
	"github.com/specialistvlad/poolprop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("forward references are resolved", func(t *testing.T) {
		b := New()
		require.NoError(t, b.Add(layer.New("sum", 1), "load"))
		require.NoError(t, b.Add(layer.New("load", 4)))

		g, err := b.Build(context.Background())
		require.NoError(t, err)

		deps, err := g.Dependencies("sum")
		require.NoError(t, err)
		assert.Equal(t, []string{"load"}, deps)
	})

	t.Run("unknown dependency", func(t *testing.T) {
		b := New()
		require.NoError(t, b.Add(layer.New("sum", 1), "ghost"))

		_, err := b.Build(context.Background())
		require.ErrorIs(t, err, dag.ErrUnknownLayer)
	})

	t.Run("cycle", func(t *testing.T) {
		b := New()
		require.NoError(t, b.Add(layer.New("a", 1), "b"))
		require.NoError(t, b.Add(layer.New("b", 1), "a"))

		_, err := b.Build(context.Background())
		require.ErrorIs(t, err, dag.ErrCycle)
	})

	t.Run("duplicate id", func(t *testing.T) {
		b := New()
		require.NoError(t, b.Add(layer.New("a", 1)))
		require.ErrorIs(t, b.Add(layer.New("a", 2)), dag.ErrDuplicateLayer)
	})

	t.Run("ambiguous layer is rejected on add", func(t *testing.T) {
		l := layer.New("a", 1)
		l.Resources = map[string]float64{"pool-x": 1, "pool-y": 1}
		require.ErrorIs(t, New().Add(l), pool.ErrAmbiguousPool)
	})
}

func TestBuilder_WithPool(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(layer.New("outside", 1)))

	err := b.WithPool("cpu", func(b *Builder) error {
		assert.Equal(t, pool.MustNew("cpu"), b.Pool())
		if err := b.Add(layer.New("load", 1)); err != nil {
			return err
		}
		if err := b.Add(testutil.Layer("pinned", "io"), "load"); err != nil {
			return err
		}
		return b.WithPool("gpu", func(b *Builder) error {
			return b.Add(layer.New("train", 1), "load")
		})
	})
	require.NoError(t, err)
	assert.Equal(t, pool.None, b.Pool())

	require.NoError(t, b.Add(layer.New("report", 1), "train"))

	g, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"outside": "",
		"load":    "cpu",
		"pinned":  "io",
		"train":   "gpu",
		"report":  "",
	}, testutil.Pools(t, g))
}

func TestBuilder_WithPoolRestoresScope(t *testing.T) {
	b := New()

	t.Run("on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := b.WithPool("cpu", func(*Builder) error { return boom })
		require.ErrorIs(t, err, boom)
		assert.Equal(t, pool.None, b.Pool())
	})

	t.Run("on panic", func(t *testing.T) {
		require.Panics(t, func() {
			_ = b.WithPool("cpu", func(*Builder) error { panic("boom") })
		})
		assert.Equal(t, pool.None, b.Pool())
	})

	t.Run("invalid name", func(t *testing.T) {
		called := false
		err := b.WithPool("has space", func(*Builder) error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, pool.ErrInvalidPool)
		assert.False(t, called)
	})
}

func TestBuilder_AddDoesNotModifyLayer(t *testing.T) {
	l := layer.New("a", 1)
	b := New()
	require.NoError(t, b.WithPool("cpu", func(b *Builder) error { return b.Add(l) }))
	assert.Nil(t, l.Resources)
}
