package memo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/condameta/conda-meta-mcp/internal/toolerr"
)

func TestNewWindow(t *testing.T) {
	w, err := NewWindow(10, 5)
	require.NoError(t, err)
	require.Equal(t, Window{Limit: 10, Offset: 5}, w)

	_, err = NewWindow(-1, 0)
	require.Error(t, err)
	require.Equal(t, toolerr.KindValidation, toolerr.KindOf(err))

	_, err = NewWindow(0, -3)
	require.Error(t, err)
	require.Equal(t, toolerr.KindValidation, toolerr.KindOf(err))
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	t.Run("zero limit takes everything from offset", func(t *testing.T) {
		require.Equal(t, []int{2, 3, 4}, Paginate(items, Window{Offset: 2}))
	})

	t.Run("limit clamps to the end", func(t *testing.T) {
		require.Equal(t, []int{3, 4}, Paginate(items, Window{Limit: 10, Offset: 3}))
	})

	t.Run("out of range offset yields empty, never errors", func(t *testing.T) {
		require.Empty(t, Paginate(items, Window{Offset: 5}))
		require.Empty(t, Paginate(items, Window{Offset: 100}))
	})

	t.Run("pages are disjoint and cover the input", func(t *testing.T) {
		var collected []int
		for offset := 0; offset < len(items); offset += 2 {
			collected = append(collected, Paginate(items, Window{Limit: 2, Offset: offset})...)
		}
		require.Equal(t, items, collected)
	})
}

func TestLimitJSON(t *testing.T) {
	raw, err := json.Marshal(Limit(0))
	require.NoError(t, err)
	require.Equal(t, `"all"`, string(raw))

	raw, err = json.Marshal(Limit(25))
	require.NoError(t, err)
	require.Equal(t, `25`, string(raw))
}

func TestNewPage(t *testing.T) {
	full := []string{"a", "b", "c", "d"}

	page := NewPage(full, Window{Limit: 2, Offset: 1})
	require.Equal(t, []string{"b", "c"}, page.Items)
	require.Equal(t, 2, page.Count)
	require.Equal(t, 4, page.Total)
	require.Equal(t, Limit(2), page.Limit)
	require.Equal(t, 1, page.Offset)

	raw, err := json.Marshal(NewPage(full, Window{}))
	require.NoError(t, err)
	require.JSONEq(t, `{"items":["a","b","c","d"],"count":4,"total":4,"limit":"all","offset":0}`, string(raw))
}
