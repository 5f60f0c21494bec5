package oracle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

const parseErrorSnippetLen = 500

// wireClassification is the oracle's per-document output shape.
type wireClassification struct {
	DocumentIndex    *int                 `json:"document_index"`
	FileType         string               `json:"file_type"`
	Category         string               `json:"category"`
	SuggestedFolder  string               `json:"suggested_folder"`
	TargetLevel      string               `json:"target_level"`
	Confidence       float64              `json:"confidence"`
	Reasoning        string               `json:"reasoning"`
	AlternativeTypes []string             `json:"alternative_types"`
	Summary          wireSummary          `json:"summary"`
	ChecklistMatches []wireChecklistMatch `json:"checklist_matches"`
}

type wireSummary struct {
	ExecutiveSummary string   `json:"executive_summary"`
	DocumentPurpose  string   `json:"document_purpose"`
	KeyEntities      string   `json:"key_entities"`
	KeyTerms         []string `json:"key_terms"`
	KeyDates         []string `json:"key_dates"`
	KeyAmounts       []string `json:"key_amounts"`
}

type wireChecklistMatch struct {
	ItemID     string  `json:"item_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// parseClassificationArray parses the raw oracle text into wire objects.
// Recovery ladder: strip markdown fences, plain unmarshal, wrap a lone object
// into a one-element array, regex-extract the first [...] span; after that a
// parse error carrying the head of the raw response is surfaced.
func parseClassificationArray(raw string) ([]wireClassification, error) {
	cleaned := stripFences(raw)

	var arr []wireClassification
	if err := json.Unmarshal([]byte(cleaned), &arr); err == nil {
		return arr, nil
	}

	var single wireClassification
	if err := json.Unmarshal([]byte(cleaned), &single); err == nil && (single.FileType != "" || single.Category != "") {
		return []wireClassification{single}, nil
	}

	if span, ok := extractSpan(cleaned, '[', ']'); ok {
		if err := json.Unmarshal([]byte(span), &arr); err == nil {
			return arr, nil
		}
	}

	return nil, domain.WrapError(domain.ErrResponseParse, "parse classification",
		fmt.Errorf("no JSON array found in response: %s", snippet(raw, parseErrorSnippetLen)))
}

// wireField is the extractor's per-field output shape.
type wireField struct {
	DocumentIndex *int     `json:"document_index"`
	FieldPath     string   `json:"field_path"`
	Label         string   `json:"label"`
	Value         string   `json:"value"`
	ValueType     string   `json:"value_type"`
	Confidence    float64  `json:"confidence"`
	SourceText    string   `json:"source_text"`
	TemplateTags  []string `json:"template_tags"`
	Category      string   `json:"category"`
	IsCanonical   *bool    `json:"is_canonical"`
	Scope         string   `json:"scope"`
}

type wireFieldEnvelope struct {
	Fields []wireField `json:"fields"`
}

// parseFieldList parses a single-document extraction response: a bare array
// or a {"fields": [...]} envelope, with brace-span recovery.
func parseFieldList(raw string) []wireField {
	cleaned := stripFences(raw)

	var arr []wireField
	if err := json.Unmarshal([]byte(cleaned), &arr); err == nil {
		return arr
	}
	var envelope wireFieldEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err == nil && envelope.Fields != nil {
		return envelope.Fields
	}
	if span, ok := extractSpan(cleaned, '{', '}'); ok {
		if err := json.Unmarshal([]byte(span), &envelope); err == nil {
			return envelope.Fields
		}
	}
	return nil
}

// parseFieldsByIndex parses a batched extraction response. The parser
// tolerates three shapes: the expected index-keyed object, a flat array with
// embedded per-item indexes, or unparsable text, which yields an empty list
// for every expected index rather than an error.
func parseFieldsByIndex(raw string, expected []int) map[int][]wireField {
	out := make(map[int][]wireField, len(expected))
	for _, index := range expected {
		out[index] = nil
	}

	cleaned := stripFences(raw)

	var keyed map[string][]wireField
	if err := json.Unmarshal([]byte(cleaned), &keyed); err == nil && len(keyed) > 0 {
		return mergeKeyed(out, keyed)
	}

	var flat []wireField
	if err := json.Unmarshal([]byte(cleaned), &flat); err == nil {
		return mergeFlat(out, flat)
	}

	if span, ok := extractSpan(cleaned, '{', '}'); ok {
		if err := json.Unmarshal([]byte(span), &keyed); err == nil && len(keyed) > 0 {
			return mergeKeyed(out, keyed)
		}
	}

	return out
}

func mergeKeyed(out map[int][]wireField, keyed map[string][]wireField) map[int][]wireField {
	for key, fields := range keyed {
		index, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		if _, expected := out[index]; expected {
			out[index] = fields
		}
	}
	return out
}

func mergeFlat(out map[int][]wireField, flat []wireField) map[int][]wireField {
	for _, field := range flat {
		if field.DocumentIndex == nil {
			continue
		}
		index := *field.DocumentIndex
		if _, expected := out[index]; expected {
			out[index] = append(out[index], field)
		}
	}
	return out
}

func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.Index(trimmed, "\n"); nl >= 0 && !strings.ContainsAny(trimmed[:nl], "[{") {
		trimmed = trimmed[nl+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func extractSpan(raw string, open, closing byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, closing)
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func snippet(raw string, limit int) string {
	runes := []rune(raw)
	if len(runes) <= limit {
		return raw
	}
	return string(runes[:limit])
}
