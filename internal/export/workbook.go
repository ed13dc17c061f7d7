package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates with every new file.
const defaultSheet = "Sheet1"

// writeWorkbook saves sheets, in order, to path as an xlsx file. Absent
// values are not written so their cells stay blank. With no sheets the file
// keeps the single blank default sheet.
func writeWorkbook(path string, sheets []*Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet *Sheet) error {
	for c, name := range sheet.Header {
		if err := setCell(f, sheet.Name, c+1, 1, name); err != nil {
			return err
		}
	}
	for r, row := range sheet.Rows {
		for c, cell := range row {
			if cell.Value.IsAbsent() {
				continue
			}
			if err := setCell(f, sheet.Name, c+1, r+2, cell.Value.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell reference %d,%d: %w", col, row, err)
	}
	if err := f.SetCellStr(sheet, ref, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, ref, err)
	}
	return nil
}
