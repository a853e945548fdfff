package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows returns the cell text of the first sheet, one slice per row.
// Cells keep the display formatting of the workbook, so dates and amounts
// arrive the way the user sees them.
func ReadRows(reader io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows, nil
}

// IsWorkbook reports whether a file name carries a spreadsheet extension
// this package can open.
func IsWorkbook(fileName string) bool {
	return strings.EqualFold(extension(fileName), ".xlsx")
}

func extension(fileName string) string {
	if i := strings.LastIndexByte(fileName, '.'); i >= 0 {
		return fileName[i:]
	}
	return ""
}
