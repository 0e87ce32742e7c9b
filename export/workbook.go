package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetName is the answer sheet of the workbook.
const SheetName = "Đáp án"

// Workbook renders the rows as an .xlsx workbook: a header row, then one row
// per version.
func Workbook(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	header := Header()
	values := make([]interface{}, len(header))
	for i, title := range header {
		values[i] = title
	}
	if err := f.SetSheetRow(SheetName, "A1", &values); err != nil {
		return nil, fmt.Errorf("set header: %w", err)
	}
	for i, row := range rows {
		values := make([]interface{}, 0, Width+1)
		values = append(values, row.Version)
		for _, cell := range row.Cells {
			values = append(values, cell)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("set row %s: %w", row.Version, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "A", "A", 10); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", last, 6); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
