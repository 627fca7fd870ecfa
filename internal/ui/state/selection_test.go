package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"starcleaner/internal/github/githubtest"
)

func TestSelectionZeroValue(t *testing.T) {
	var s Selection
	assert.Zero(t, s.Count())
	assert.False(t, s.IsSelected(1))
	assert.Empty(t, s.IDs())
	s.RemoveIDs([]int64{1})

	assert.True(t, s.Toggle(7))
	assert.True(t, s.IsSelected(7))
	assert.False(t, s.Toggle(7))
	assert.Zero(t, s.Count())
}

func TestSelectionSelectAllAndRemove(t *testing.T) {
	var s Selection
	s.SelectAll(githubtest.Repos(1, 4))
	assert.Equal(t, []int64{1, 2, 3, 4}, s.IDs())

	s.RemoveIDs([]int64{2, 9})
	assert.Equal(t, []int64{1, 3, 4}, s.IDs())

	s.Clear()
	assert.Zero(t, s.Count())
}
