package mock

import (
	"context"
	"regexp"
	"strings"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

// Extractor is the deterministic counterpart of the oracle-backed intelligence
// extractor. It derives a small field set from regular expressions over the
// document text so downstream persistence has realistic input.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

var (
	amountPattern = regexp.MustCompile(`(?i)(?:£|\$|€|GBP|USD|EUR)\s?([0-9][0-9,.]{2,})`)
	datePattern   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})\b`)
)

func (e *Extractor) ExtractSingle(_ context.Context, doc domain.BatchDocument, fullText string) ([]domain.IntelligenceField, ports.OracleUsage, error) {
	text := fullText
	if text == "" {
		text = doc.Content.Text
	}
	fields := extractFields(doc, text)
	return fields, ports.OracleUsage{InputTokens: len(text) / 4, OutputTokens: 40 * len(fields), LatencyMs: latencyPerDocMs}, nil
}

func (e *Extractor) ExtractBatch(_ context.Context, docs []domain.BatchDocument, fullTexts map[int]string) (map[int][]domain.IntelligenceField, ports.OracleUsage, error) {
	out := make(map[int][]domain.IntelligenceField, len(docs))
	var inputTokens, outputTokens int
	for _, doc := range docs {
		text := fullTexts[doc.Index]
		if text == "" {
			text = doc.Content.Text
		}
		fields := extractFields(doc, text)
		out[doc.Index] = fields
		inputTokens += len(text) / 4
		outputTokens += 40 * len(fields)
	}

	latency := int64(latencyPerDocMs * len(docs))
	if latency > latencyCapMs {
		latency = latencyCapMs
	}
	return out, ports.OracleUsage{InputTokens: inputTokens, OutputTokens: outputTokens, LatencyMs: latency}, nil
}

func extractFields(doc domain.BatchDocument, text string) []domain.IntelligenceField {
	fields := []domain.IntelligenceField{{
		FieldPath:    "general.documentTitle",
		Label:        "Document Title",
		Value:        titleFromFileName(doc.FileName),
		ValueType:    "string",
		Confidence:   0.90,
		TemplateTags: []string{"general"},
		Category:     "general",
		IsCanonical:  true,
	}}

	if match := amountPattern.FindStringSubmatch(text); match != nil {
		fields = append(fields, domain.IntelligenceField{
			FieldPath:    "financials.primaryAmount",
			Label:        "Primary Amount",
			Value:        strings.TrimRight(match[1], ".,"),
			ValueType:    "currency",
			Confidence:   0.70,
			SourceText:   match[0],
			TemplateTags: []string{"general"},
			Category:     "financials",
			IsCanonical:  true,
		})
	}
	if match := datePattern.FindString(text); match != "" {
		fields = append(fields, domain.IntelligenceField{
			FieldPath:    "dates.referenceDate",
			Label:        "Reference Date",
			Value:        match,
			ValueType:    "date",
			Confidence:   0.70,
			SourceText:   match,
			TemplateTags: []string{"general"},
			Category:     "dates",
			IsCanonical:  true,
		})
	}
	return fields
}

// titleFromFileName turns "RedBook_Valuation_123.pdf" into "RedBook Valuation 123".
func titleFromFileName(fileName string) string {
	base := fileName
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
