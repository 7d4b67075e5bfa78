package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// NewWorkbook lays out one sheet per SheetSpec, header in row 1.
func NewWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}
		if err := writeRow(f, s.Title, 1, s.Header); err != nil {
			return nil, err
		}
		for r, row := range s.Rows {
			if err := writeRow(f, s.Title, r+2, row); err != nil {
				return nil, err
			}
		}
		if err := ApplyDefaultExcelFormatting(f, s.Title); err != nil {
			return nil, fmt.Errorf("format %s: %w", s.Title, err)
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, vals []string) error {
	for c, v := range vals {
		cell := fmt.Sprintf("%s%d", columnName(c+1), row)
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

// WriteWorkbook streams the sheets as an .xlsx file.
func WriteWorkbook(w io.Writer, sheets []SheetSpec) error {
	f, err := NewWorkbook(sheets)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
