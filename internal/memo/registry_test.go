package memo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClearerRegistry(t *testing.T) {
	t.Run("runs clearers in registration order", func(t *testing.T) {
		r := NewClearerRegistry()

		var order []string
		r.Register(func() { order = append(order, "a") })
		r.Register(func() { order = append(order, "b") })

		require.Equal(t, 2, r.Len())

		r.ClearAll()
		require.Equal(t, []string{"a", "b"}, order)
	})

	t.Run("duplicate registration runs twice", func(t *testing.T) {
		r := NewClearerRegistry()

		calls := 0
		clearer := func() { calls++ }
		r.Register(clearer)
		r.Register(clearer)

		r.ClearAll()
		require.Equal(t, 2, calls)
	})

	t.Run("a panicking clearer does not stop the rest", func(t *testing.T) {
		r := NewClearerRegistry()

		ran := false
		r.Register(func() { panic("broken cache") })
		r.Register(func() { ran = true })

		require.NotPanics(t, r.ClearAll)
		require.True(t, ran)
	})

	t.Run("nil clearer is skipped", func(t *testing.T) {
		r := NewClearerRegistry()
		r.Register(nil)

		require.NotPanics(t, r.ClearAll)
	})

	t.Run("empty registry clears nothing", func(t *testing.T) {
		r := NewClearerRegistry()
		require.Equal(t, 0, r.Len())
		require.NotPanics(t, r.ClearAll)
	})
}
