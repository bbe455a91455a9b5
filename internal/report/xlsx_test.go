package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/company-intel/intel-cli/internal/merge"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	stats := merge.Stats{
		Total:      2,
		Duplicates: 1,
		FieldCoverage: map[string]int{
			"domain":       2,
			"company_name": 2,
			"logo":         1,
		},
		Sectors: map[string]int{
			"Technology": 1,
			"Unknown":    1,
		},
	}

	require.NoError(t, WriteXLSX(path, stats))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 2)

	coverage := file.Sheets[0]
	assert.Equal(t, "Field Coverage", coverage.Name)
	assert.Equal(t, "Field", coverage.Rows[0].Cells[0].Value)
	// Header plus one row per schema field.
	assert.Len(t, coverage.Rows, 12)

	sectors := file.Sheets[1]
	assert.Equal(t, "Sectors", sectors.Name)
	// Header plus two sectors, sorted alphabetically.
	require.Len(t, sectors.Rows, 3)
	assert.Equal(t, "Technology", sectors.Rows[1].Cells[0].Value)
	assert.Equal(t, "Unknown", sectors.Rows[2].Cells[0].Value)
}

func TestWriteXLSX_EmptyStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, WriteXLSX(path, merge.Stats{
		FieldCoverage: map[string]int{},
		Sectors:       map[string]int{},
	}))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, file.Sheets, 2)
}
