package preprocess

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

const (
	// textProbeChars bounds how much extracted text the keyword scan reads.
	textProbeChars = 2000
	// textBudgetChars is the smart-truncation budget for prompt text.
	textBudgetChars  = 4000
	truncationMarker = "\n\n[... content truncated ...]\n\n"
)

// Processor normalizes raw files into batch documents. It never returns an
// error: unreadable content becomes a placeholder string so the document still
// flows through classification on filename heuristics alone.
type Processor struct {
	textBudget int
}

func New() *Processor {
	return &Processor{textBudget: textBudgetChars}
}

func (p *Processor) Preprocess(_ context.Context, index int, file domain.InputFile) domain.BatchDocument {
	text := extractText(file)
	hints := deriveHints(file, text)
	content := p.buildContent(file, text, hints)

	return domain.BatchDocument{
		Index:     index,
		FileName:  file.FileName,
		FileSize:  file.Size,
		MediaType: file.MediaType,
		Content:   content,
		Hints:     hints,
	}
}

// extractText returns whatever text is cheaply available for this file:
// caller-supplied text first, then format-specific extraction.
func extractText(file domain.InputFile) string {
	if file.Text != "" {
		return file.Text
	}
	switch {
	case isPDF(file):
		return extractPDFText(file.Data)
	case isSpreadsheet(file):
		return extractSpreadsheetPreview(file.Data)
	case isImage(file):
		return ""
	default:
		if utf8.Valid(file.Data) {
			return string(file.Data)
		}
		return ""
	}
}

func deriveHints(file domain.InputFile, text string) domain.DocumentHints {
	hints := domain.DocumentHints{
		IsSpreadsheet: isSpreadsheet(file),
		IsImage:       isImage(file),
	}

	seen := map[string]bool{}
	addTags := func(tags []string) {
		for _, tag := range tags {
			if !seen[tag] {
				seen[tag] = true
				hints.MatchedTags = append(hints.MatchedTags, tag)
			}
		}
	}

	for _, pattern := range filenamePatterns {
		if pattern.re.MatchString(file.FileName) {
			hints.FilenameTypeHint = pattern.fileType
			hints.FilenameCategoryHint = pattern.category
			addTags(pattern.tags)
			break
		}
	}

	probe := file.FileName + "\n" + headChars(text, textProbeChars)
	var flags signalFlags
	for _, signal := range keywordSignals {
		if signal.re.MatchString(probe) {
			signal.apply(&flags)
			addTags(signal.tags)
		}
	}
	hints.IsFinancial = flags.financial
	hints.IsLegal = flags.legal
	hints.IsIdentity = flags.identity

	return hints
}

func (p *Processor) buildContent(file domain.InputFile, text string, hints domain.DocumentHints) domain.ProcessedContent {
	switch {
	case hints.IsImage:
		if len(file.Data) == 0 {
			return placeholderContent(domain.ContentImage, file.FileName)
		}
		return domain.ProcessedContent{
			Kind:       domain.ContentImage,
			Base64Data: encodeBase64(file.Data),
			MediaType:  imageMediaType(file),
		}

	case hints.IsSpreadsheet:
		if strings.TrimSpace(text) == "" {
			return placeholderContent(domain.ContentSpreadsheet, file.FileName)
		}
		preview, truncated := smartTruncate(text, p.textBudget)
		return domain.ProcessedContent{
			Kind:      domain.ContentSpreadsheet,
			Text:      preview,
			Truncated: truncated,
		}

	case isPDF(file):
		if strings.TrimSpace(text) != "" {
			body, truncated := smartTruncate(text, p.textBudget)
			return domain.ProcessedContent{
				Kind:      domain.ContentPDFPages,
				Text:      body,
				Truncated: truncated,
			}
		}
		if len(file.Data) == 0 {
			return placeholderContent(domain.ContentPDFPages, file.FileName)
		}
		// No extractable text: embed the raw PDF for native multi-modal handling.
		return domain.ProcessedContent{
			Kind:       domain.ContentPDFPages,
			Base64Data: encodeBase64(file.Data),
			MediaType:  "application/pdf",
		}

	default:
		if strings.TrimSpace(text) == "" {
			return placeholderContent(domain.ContentText, file.FileName)
		}
		body, truncated := smartTruncate(text, p.textBudget)
		return domain.ProcessedContent{
			Kind:      domain.ContentText,
			Text:      body,
			Truncated: truncated,
		}
	}
}

// smartTruncate keeps the head 75% and tail 25% of the budget with a marker in
// between, since openings and closings carry most classification signal.
func smartTruncate(text string, budget int) (string, bool) {
	if budget <= 0 {
		budget = textBudgetChars
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text, false
	}
	head := budget * 3 / 4
	tail := budget - head
	return string(runes[:head]) + truncationMarker + string(runes[len(runes)-tail:]), true
}

func placeholderContent(kind domain.ContentKind, fileName string) domain.ProcessedContent {
	return domain.ProcessedContent{
		Kind: kind,
		Text: fmt.Sprintf("[content unavailable for %q; classify from filename and metadata]", fileName),
	}
}

func headChars(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func isSpreadsheet(file domain.InputFile) bool {
	if spreadsheetExt.MatchString(file.FileName) {
		return true
	}
	return strings.Contains(file.MediaType, "spreadsheet") || file.MediaType == "text/csv"
}

func isImage(file domain.InputFile) bool {
	return strings.HasPrefix(file.MediaType, "image/") || imageExt.MatchString(file.FileName)
}

func isPDF(file domain.InputFile) bool {
	return file.MediaType == "application/pdf" || pdfExt.MatchString(file.FileName)
}

func imageMediaType(file domain.InputFile) string {
	if strings.HasPrefix(file.MediaType, "image/") {
		return file.MediaType
	}
	return "image/jpeg"
}
