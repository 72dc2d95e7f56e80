package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTreeMatchesParents(t *testing.T) {
	parents := parentsFor(50, 3)
	for _, cfg := range configsFor(50) {
		tree := buildTree(parents, cfg.opts)
		require.Equal(t, 50, tree.Len(), cfg.name)
		require.NoError(t, tree.Validate(), cfg.name)
	}
	assert.Zero(t, buildTree(nil, nil).Len())
}

func TestBenchCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--items", "300", "--render", "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "N=300")
	for _, cfg := range configsFor(300) {
		assert.Contains(t, s, cfg.name)
	}
	assert.Contains(t, s, "\n0 (", "the sample tree is drawn from its root")
}

func TestBenchCommandRejectsNoItems(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--items", "0"})
	require.Error(t, cmd.Execute())
}
