package preprocess

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	previewMaxRows = 25
	previewMaxCols = 12
)

// extractSpreadsheetPreview renders the head of the first sheet as tab-joined
// rows. CSV content is passed through as-is; unreadable workbooks yield "".
func extractSpreadsheetPreview(data []byte) (preview string) {
	if len(data) == 0 {
		return ""
	}
	defer func() {
		if recover() != nil {
			preview = ""
		}
	}()

	// CSV and other plain-text spreadsheets need no workbook parsing.
	if isPlainText(data) {
		return string(data)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("Sheet: " + sheets[0] + "\n")
	for i, row := range rows {
		if i >= previewMaxRows {
			builder.WriteString("[... more rows ...]\n")
			break
		}
		if len(row) > previewMaxCols {
			row = row[:previewMaxCols]
		}
		builder.WriteString(strings.Join(row, "\t"))
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String())
}

func isPlainText(data []byte) bool {
	for _, b := range data {
		if b == 0 {
			return false
		}
	}
	// XLSX containers are zip archives beginning with "PK".
	return !bytes.HasPrefix(data, []byte("PK"))
}
