// Package report renders merge statistics as an XLSX workbook for the
// research team.
package report

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/company-intel/intel-cli/internal/merge"
	"github.com/company-intel/intel-cli/internal/model"
)

// WriteXLSX writes a two-sheet coverage report: per-field population and
// sector distribution.
func WriteXLSX(path string, stats merge.Stats) error {
	file := xlsx.NewFile()

	if err := addCoverageSheet(file, stats); err != nil {
		return err
	}
	if err := addSectorSheet(file, stats); err != nil {
		return err
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func addCoverageSheet(file *xlsx.File, stats merge.Stats) error {
	sheet, err := file.AddSheet("Field Coverage")
	if err != nil {
		return eris.Wrap(err, "report: add coverage sheet")
	}

	header := sheet.AddRow()
	header.AddCell().Value = "Field"
	header.AddCell().Value = "Populated"
	header.AddCell().Value = "Total"
	header.AddCell().Value = "Coverage %"

	for _, field := range model.SchemaFields {
		populated := stats.FieldCoverage[field]
		row := sheet.AddRow()
		row.AddCell().Value = field
		row.AddCell().SetInt(populated)
		row.AddCell().SetInt(stats.Total)
		if stats.Total > 0 {
			row.AddCell().SetFloatWithFormat(float64(populated)/float64(stats.Total)*100, "0.0")
		} else {
			row.AddCell().SetInt(0)
		}
	}

	return nil
}

func addSectorSheet(file *xlsx.File, stats merge.Stats) error {
	sheet, err := file.AddSheet("Sectors")
	if err != nil {
		return eris.Wrap(err, "report: add sector sheet")
	}

	header := sheet.AddRow()
	header.AddCell().Value = "Sector"
	header.AddCell().Value = "Companies"

	sectors := make([]string, 0, len(stats.Sectors))
	for sector := range stats.Sectors {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	for _, sector := range sectors {
		row := sheet.AddRow()
		row.AddCell().Value = sector
		row.AddCell().SetInt(stats.Sectors[sector])
	}

	return nil
}
