package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welldone-cloud/aws-list-resources/config"
	"github.com/welldone-cloud/aws-list-resources/results"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , ,b,"))
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(","))
}

func TestWriteResultFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	cfg := &config.Config{ResultsDir: dir}

	aggregate := results.New([]string{"eu-west-1"}, false)
	aggregate.Finalize()
	document := aggregate.Document(results.Metadata{
		AccountID:    "111122223333",
		RunTimestamp: "20260830120000",
	})

	path, err := writeResultFile(cfg, document, "111122223333", "20260830120000")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resources_111122223333_20260830120000.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Contains(t, parsed, "_metadata")
	assert.Contains(t, parsed, "regions")
}
