package service

import (
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/careops/as-service/pkg/util"
)

// ReadWorkbook converts the first sheet of an uploaded .xlsx workbook
// into import rows. The first row is treated as the header; short data
// rows are padded so trailing empty cells do not drop fields.
func ReadWorkbook(r io.Reader) ([]map[string]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid workbook", map[string]any{"reason": err.Error()})
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewValidationError("workbook has no sheets", nil)
	}

	cells, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable sheet", map[string]any{"reason": err.Error()})
	}
	if len(cells) < 2 {
		return nil, apperrors.NewValidationError("workbook has no data rows", nil)
	}

	header := cells[0]
	rows := make([]map[string]string, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if i < len(line) {
				row[key] = line[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
