package codes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	desc, ok := tables.ShapeDescription(1)
	assert.True(t, ok)
	assert.Equal(t, "AutoShape", desc)

	_, ok = tables.ShapeDescription(999)
	assert.False(t, ok)

	tests := []struct {
		code int
		want string
	}{
		{-4169, "Scatter"},
		{74, "Scatter_Lines"},
		{4, "Line"},
		{65, "Line"},
		{51, "Bar"},
		{57, "Bar"},
		{5, "Pie"},
	}
	for _, tt := range tests {
		got, ok := tables.ChartLabel(tt.code)
		assert.True(t, ok, "code %d", tt.code)
		assert.Equal(t, tt.want, got, "code %d", tt.code)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "charts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- {value: 5, name: PIE, type: Bar}\n"), 0o644))

	tables, err := Load("", path)
	require.NoError(t, err)

	label, ok := tables.ChartLabel(5)
	assert.True(t, ok)
	assert.Equal(t, "Bar", label)

	_, ok = tables.ChartLabel(4)
	assert.False(t, ok, "override replaces the whole chart table")

	_, ok = tables.ShapeDescription(17)
	assert.True(t, ok, "shape table still embedded")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("value: [unclosed"), 0o644))
	_, err = Load(bad, "")
	assert.Error(t, err)
}
