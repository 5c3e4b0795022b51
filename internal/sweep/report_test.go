package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridrelax/gridrelax/pkg/compression"
)

func sampleReport() Report {
	return Report{Cells: []CellResult{
		{Cell: Cell{Label: "dimension", Dimension: 10}, Iterations: 5, Converged: true},
		{Cell: Cell{Label: "dimension", Dimension: 20}, Iterations: 9, Converged: true},
	}}
}

func TestWriteReport_PlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(sampleReport(), path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dimension")
}

func TestWriteReport_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json.gz")
	require.NoError(t, WriteReport(sampleReport(), path, true))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteReportCompressed_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.zst")
	require.NoError(t, WriteReportCompressed(sampleReport(), path, compression.TypeZstd))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, compression.TypeZstd, compression.DetectType(data))
}
