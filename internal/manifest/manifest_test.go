package manifest_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphaelgruber/globus-timer-go/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadPreservesOrder(t *testing.T) {
	var b strings.Builder
	const n = 25
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "/src/%d,/dst/%d,%t\n", i, i, i%2 == 0)
	}

	table, err := manifest.Read(writeManifest(t, b.String()))
	require.NoError(t, err)
	require.Len(t, table, n)

	for i, rec := range table {
		assert.Equal(t, fmt.Sprintf("/src/%d", i), rec.SourcePath)
		assert.Equal(t, fmt.Sprintf("/dst/%d", i), rec.DestinationPath)
		assert.Equal(t, fmt.Sprintf("%t", i%2 == 0), rec.Recursive)
	}
}

func TestReadKeepsFieldsVerbatim(t *testing.T) {
	content := "\"/path with spaces/a\",/b/,TRUE\n/c,\"/d,e\",nope\n"

	table, err := manifest.Read(writeManifest(t, content))
	require.NoError(t, err)
	require.Len(t, table, 2)

	assert.Equal(t, manifest.Record{SourcePath: "/path with spaces/a", DestinationPath: "/b/", Recursive: "TRUE"}, table[0])
	// Flag vocabulary is not checked at read time.
	assert.Equal(t, manifest.Record{SourcePath: "/c", DestinationPath: "/d,e", Recursive: "nope"}, table[1])
}

func TestReadEmptyFile(t *testing.T) {
	table, err := manifest.Read(writeManifest(t, ""))
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestReadMissingFile(t *testing.T) {
	_, err := manifest.Read(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrManifestNotFound)

	var ie *manifest.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, -1, ie.Row)
}

func TestReadWrongColumnCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		row     int
	}{
		{"too few", "/a,/b\n", 0},
		{"too many", "/a,/b,true\n/c,/d,false,extra\n", 1},
		{"bare quote", "/a,/b,true\n/c,\"/d,true\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)
			_, err := manifest.Read(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, manifest.ErrMalformedManifest)

			var ie *manifest.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, path, ie.Path)
			assert.Equal(t, tt.row, ie.Row)
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"True", true, false},
		{"false", false, false},
		{"FaLsE", false, false},
		{"", false, true},
		{"yes", false, true},
		{"1", false, true},
		{" true", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := manifest.ParseBool(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, manifest.ErrInvalidFlag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
