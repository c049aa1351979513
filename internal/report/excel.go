package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteExcel streams the filtered rows and totals as an .xlsx workbook.
// Column order and row order follow the schema and input exactly, the same
// contract the print document honours.
func WriteExcel(w io.Writer, schema Schema, rows []Row, totals Totals, meta Meta) error {
	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	const sheet = "Sheet1"

	title := schema.Title
	if meta.BranchName != "" {
		title = fmt.Sprintf("%s - %s", schema.Title, meta.BranchName)
	}
	if err := file.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	subtitle := fmt.Sprintf("%s %s to %s", meta.Kind.Label(), meta.Start.Format(DateFormat), meta.End.Format(DateFormat))
	if err := file.SetCellValue(sheet, "A2", subtitle); err != nil {
		return err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	const headerRow = 4
	for i, col := range schema.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, col.Title); err != nil {
			return err
		}
		if err := file.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for i, col := range schema.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, headerRow+1+r)
			if err != nil {
				return err
			}
			if col.Kind == ColNumber {
				err = file.SetCellValue(sheet, cell, row.Number(col.Key))
			} else {
				err = file.SetCellValue(sheet, cell, row.Text(col.Key))
			}
			if err != nil {
				return err
			}
		}
	}

	totalsRow := headerRow + 1 + len(rows)
	labelled := false
	for i, col := range schema.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, totalsRow)
		if err != nil {
			return err
		}
		switch {
		case col.Aggregate:
			err = file.SetCellValue(sheet, cell, totals[col.Key])
		case !labelled:
			err = file.SetCellValue(sheet, cell, "Totals")
			labelled = true
		default:
			continue
		}
		if err != nil {
			return err
		}
		if err := file.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	return file.Write(w)
}
