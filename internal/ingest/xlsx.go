package ingest

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first worksheet of an Office Open XML workbook.
func ParseXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, parseError(err, "xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(errors.New("workbook has no worksheets"), "xlsx")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, parseError(err, "xlsx")
	}
	return newTable(rows), nil
}
