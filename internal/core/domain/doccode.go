package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DocumentCode builds the canonical filing code:
// {SHORTCODE}-{TYPE_ABBR}-{INT|EXT}-{UPLOADER_INITIALS}-{VERSION}-{YYYY-MM-DD}.
func DocumentCode(clientShortCode, fileType string, internal bool, uploaderInitials string, version int, at time.Time) string {
	origin := "EXT"
	if internal {
		origin = "INT"
	}
	if version < 1 {
		version = 1
	}
	initials := strings.ToUpper(strings.TrimSpace(uploaderInitials))
	if initials == "" {
		initials = "NA"
	}
	return fmt.Sprintf("%s-%s-%s-%s-V%d-%s",
		normalizeShortCode(clientShortCode),
		typeAbbreviation(fileType),
		origin,
		initials,
		version,
		at.Format("2006-01-02"),
	)
}

func normalizeShortCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "GEN"
	}
	return code
}

// typeAbbreviation derives a short code from the file type: first letter of
// each word, up to four, uppercased. "RedBook Valuation" -> "RV".
func typeAbbreviation(fileType string) string {
	fields := strings.FieldsFunc(fileType, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return "DOC"
	}
	var b strings.Builder
	for i, f := range fields {
		if i == 4 {
			break
		}
		b.WriteRune(unicode.ToUpper([]rune(f)[0]))
	}
	if b.Len() == 1 {
		runes := []rune(strings.ToUpper(fields[0]))
		if len(runes) >= 3 {
			return string(runes[:3])
		}
		return string(runes)
	}
	return b.String()
}
