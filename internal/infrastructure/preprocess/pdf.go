package preprocess

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText pulls plain text from an in-memory PDF. Malformed files yield
// an empty string; the parser is wrapped in a recover because upstream panics
// on some damaged cross-reference tables.
func extractPDFText(data []byte) (text string) {
	if len(data) == 0 {
		return ""
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String())
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
