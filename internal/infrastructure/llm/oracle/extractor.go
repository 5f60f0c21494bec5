package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

const (
	singleDocTextLimit  = 12000
	batchedDocTextLimit = 8000
)

// Extractor runs the second oracle pass over full document text. Unlike the
// classifier it never fails a document on unparsable output: the tolerant
// parser degrades to empty field lists.
type Extractor struct {
	client *Client
	skill  domain.Skill
}

func NewExtractor(client *Client, skill domain.Skill) *Extractor {
	return &Extractor{client: client, skill: skill}
}

func (e *Extractor) ExtractSingle(ctx context.Context, doc domain.BatchDocument, fullText string) ([]domain.IntelligenceField, ports.OracleUsage, error) {
	text := truncateHeadTail(fullText, singleDocTextLimit)

	prompt := fmt.Sprintf(`Extract intelligence fields from this document.

Filename: %s

%s

Respond with a JSON object: {"fields": [...]} using the field schema from your instructions.`, doc.FileName, text)

	raw, usage, latencyMs, err := e.client.complete(ctx, "extract",
		[]systemBlock{{Type: "text", Text: e.skill.Instructions, CacheControl: &cacheControl{Type: "ephemeral"}}},
		[]contentBlock{{Type: "text", Text: prompt}},
	)
	oracleUsage := toOracleUsage(usage, latencyMs)
	if err != nil {
		return nil, oracleUsage, fmt.Errorf("extract document %d: %w", doc.Index, err)
	}

	fields := make([]domain.IntelligenceField, 0)
	for _, wire := range parseFieldList(raw) {
		fields = append(fields, normalizeField(wire))
	}
	return fields, oracleUsage, nil
}

func (e *Extractor) ExtractBatch(ctx context.Context, docs []domain.BatchDocument, fullTexts map[int]string) (map[int][]domain.IntelligenceField, ports.OracleUsage, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract intelligence fields from the following %d documents.\n", len(docs))

	expected := make([]int, 0, len(docs))
	for _, doc := range docs {
		expected = append(expected, doc.Index)
		text := fullTexts[doc.Index]
		if text == "" {
			text = doc.Content.Text
		}
		fmt.Fprintf(&b, "\n--- Document %d: %s ---\n%s\n", doc.Index, doc.FileName, truncateHeadTail(text, batchedDocTextLimit))
	}
	b.WriteString("\nRespond with a JSON object keyed by document index: {\"<index>\": [fields...], ...}.")

	raw, usage, latencyMs, err := e.client.complete(ctx, "extract_batch",
		[]systemBlock{{Type: "text", Text: e.skill.Instructions, CacheControl: &cacheControl{Type: "ephemeral"}}},
		[]contentBlock{{Type: "text", Text: b.String()}},
	)
	oracleUsage := toOracleUsage(usage, latencyMs)
	if err != nil {
		return nil, oracleUsage, fmt.Errorf("extract batch of %d: %w", len(docs), err)
	}

	out := make(map[int][]domain.IntelligenceField, len(expected))
	for index, wires := range parseFieldsByIndex(raw, expected) {
		fields := make([]domain.IntelligenceField, 0, len(wires))
		for _, wire := range wires {
			fields = append(fields, normalizeField(wire))
		}
		out[index] = fields
	}
	return out, oracleUsage, nil
}

// normalizeField guarantees safe defaults on every extracted field: category
// from the path's first segment, template tags never empty, canonical status
// inferred from the custom. namespace when unset.
func normalizeField(wire wireField) domain.IntelligenceField {
	field := domain.IntelligenceField{
		FieldPath:    wire.FieldPath,
		Label:        wire.Label,
		Value:        wire.Value,
		ValueType:    wire.ValueType,
		Confidence:   domain.ClampConfidence(wire.Confidence),
		SourceText:   wire.SourceText,
		TemplateTags: wire.TemplateTags,
		Category:     wire.Category,
		Scope:        wire.Scope,
	}
	if field.Category == "" {
		if dot := strings.Index(field.FieldPath, "."); dot > 0 {
			field.Category = field.FieldPath[:dot]
		} else {
			field.Category = "general"
		}
	}
	if len(field.TemplateTags) == 0 {
		field.TemplateTags = []string{"general"}
	}
	if wire.IsCanonical != nil {
		field.IsCanonical = *wire.IsCanonical
	} else {
		field.IsCanonical = !strings.HasPrefix(field.FieldPath, "custom.")
	}
	return field
}

// truncateHeadTail keeps 80% head and 20% tail of oversized text.
func truncateHeadTail(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	head := limit * 4 / 5
	tail := limit - head
	return string(runes[:head]) + "\n[... truncated ...]\n" + string(runes[len(runes)-tail:])
}

func toOracleUsage(usage completionUsage, latencyMs int64) ports.OracleUsage {
	return ports.OracleUsage{
		InputTokens:         usage.InputTokens,
		OutputTokens:        usage.OutputTokens,
		CacheReadTokens:     usage.CacheReadInputTokens,
		CacheCreationTokens: usage.CacheCreationInputTokens,
		LatencyMs:           latencyMs,
	}
}
