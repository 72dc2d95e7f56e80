package vectree

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncedConcurrentUpdatesAndViews(t *testing.T) {
	s := NewSynced(New[int]())
	var root Index
	require.NoError(t, s.Update(func(tree *Tree[int]) error {
		root = tree.InsertRoot(-1)
		return nil
	}))

	const writers, perWriter = 8, 200
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range perWriter {
				err := s.Update(func(tree *Tree[int]) error {
					_, err := tree.Insert(w*perWriter+k, root)
					return err
				})
				assert.NoError(t, err)
			}
		}()
	}
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				s.View(func(tree *Tree[int]) {
					// Inside one View the tree cannot change under the traversal.
					n := len(slices.Collect(tree.Descendants(root)))
					assert.Equal(t, tree.Len(), n)
				})
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1+writers*perWriter, s.Len())
	stats := s.Stats()
	require.Equal(t, s.Len(), stats.Len)
	require.Equal(t, stats.Capacity, stats.Len+stats.Free)
	s.View(func(tree *Tree[int]) {
		require.NoError(t, tree.Validate())
	})
}

func TestSyncedUpdateReturnsCallbackError(t *testing.T) {
	s := NewSynced(New[string](WithCapacity(1), WithGrowthSlots(1)))
	err := s.Update(func(tree *Tree[string]) error {
		root := tree.InsertRoot("root")
		_, err := tree.TryInsert("child", root)
		return err
	})
	require.ErrorIs(t, err, ErrCapacity)

	var rejected *RejectedError[string]
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, "child", rejected.Value)
	require.Equal(t, 1, s.Len())
}
