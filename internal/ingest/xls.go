package ingest

import (
	"errors"
	"fmt"

	"github.com/extrame/xls"
)

// ParseXLS reads the first worksheet of a legacy BIFF workbook. The decoder
// panics on some corrupt files; those panics surface as parse errors.
func ParseXLS(path string) (table *Table, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			table = nil
			err = parseError(fmt.Errorf("corrupt workbook: %v", rec), "xls")
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, parseError(err, "xls")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, parseError(errors.New("workbook has no worksheets"), "xls")
	}

	raw := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for col := row.FirstCol(); col < row.LastCol(); col++ {
			cells[col] = row.Col(col)
		}
		raw = append(raw, cells)
	}
	return newTable(raw), nil
}

// sheetRow returns nil for rows the sheet has no records for.
// WorkSheet.Row dereferences the missing entry instead of returning nil.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
