package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScenarios(t *testing.T) {
	scenarios, err := loadScenarios("")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)
	for _, s := range scenarios {
		assert.NotEmpty(t, s.title())
	}
}

func TestLoadScenariosInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: x\n  width: 2\n  layers: 1\n  sources: 1\n  iterations: 1\n"), 0644))

	_, err := loadScenarios(path)
	require.Error(t, err)

	_, err = loadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestScenarioRun(t *testing.T) {
	s := scenario{
		Name:           "tiny",
		Width:          2,
		Layers:         2,
		Sources:        2,
		StaticFraction: 1,
		ReadFraction:   1,
		Iterations:     2,
	}
	require.NoError(t, s.validate())

	g, err := s.build()
	require.NoError(t, err)
	res, err := s.run(g)
	require.NoError(t, err)

	// first write stores the value source 0 already holds
	assert.Equal(t, 4, res.sum)
	assert.EqualValues(t, 2, res.runs)
	assert.Equal(t, 2, g.rs.Sources())
}

func TestScenarioDynamicNodes(t *testing.T) {
	s := scenario{
		Name:           "dynamic",
		Width:          4,
		Layers:         3,
		Sources:        3,
		StaticFraction: 0,
		ReadFraction:   0.5,
		Iterations:     10,
	}
	g, err := s.build()
	require.NoError(t, err)

	first, err := s.run(g)
	require.NoError(t, err)
	again, err := s.build()
	require.NoError(t, err)
	second, err := s.run(again)
	require.NoError(t, err)

	assert.Equal(t, first.sum, second.sum)
	assert.Equal(t, first.runs, second.runs)
}
