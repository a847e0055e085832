package pkg

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type spillItem struct {
	ID   int
	Name string
}

func TestFileSpill_AppendAndRange(t *testing.T) {
	spill, err := NewFileSpill[spillItem]()
	require.NoError(t, err)

	defer func() { _ = spill.Close() }()

	for i := 0; i < 5; i++ {
		require.NoError(t, spill.Append(spillItem{ID: i, Name: "item"}))
	}

	require.Equal(t, uint64(5), spill.Len())

	var seen []int

	err = spill.Range(func(index uint64, item spillItem) error {
		require.Equal(t, int(index), item.ID)
		seen = append(seen, item.ID)

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestFileSpill_ZeroValuedFieldsAfterNonZero(t *testing.T) {
	spill, err := NewFileSpill[spillItem]()
	require.NoError(t, err)

	defer func() { _ = spill.Close() }()

	require.NoError(t, spill.Append(spillItem{ID: 7, Name: "seven"}))
	require.NoError(t, spill.Append(spillItem{}))

	var items []spillItem

	err = spill.Range(func(_ uint64, item spillItem) error {
		items = append(items, item)

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []spillItem{{ID: 7, Name: "seven"}, {}}, items)

	item, err := spill.Get(1)
	require.NoError(t, err)
	require.Equal(t, spillItem{}, item)
}

func TestFileSpill_Get(t *testing.T) {
	spill, err := NewFileSpill[spillItem]()
	require.NoError(t, err)

	defer func() { _ = spill.Close() }()

	require.NoError(t, spill.Append(spillItem{ID: 1}))
	require.NoError(t, spill.Append(spillItem{ID: 2}))

	item, err := spill.Get(1)
	require.NoError(t, err)
	require.Equal(t, 2, item.ID)

	_, err = spill.Get(2)
	require.Error(t, err)
}

func TestFileSpill_ConcurrentAppend(t *testing.T) {
	spill, err := NewFileSpill[spillItem]()
	require.NoError(t, err)

	defer func() { _ = spill.Close() }()

	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			_ = spill.Append(spillItem{ID: id})
		}(i)
	}

	wg.Wait()

	require.Equal(t, uint64(20), spill.Len())
}

func TestFileSpill_CloseRemovesFile(t *testing.T) {
	spill, err := NewFileSpill[spillItem]()
	require.NoError(t, err)

	path := spill.Path()
	require.NoError(t, spill.Close())

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// Closing twice is harmless.
	require.NoError(t, spill.Close())
}
