package oracle

import (
	"strings"
	"testing"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

func TestParseClassificationArrayPlain(t *testing.T) {
	raw := `[{"file_type":"Passport","category":"KYC","confidence":0.9}]`
	wires, err := parseClassificationArray(raw)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if len(wires) != 1 || wires[0].FileType != "Passport" {
		t.Fatalf("unexpected result: %+v", wires)
	}
}

func TestParseClassificationArrayStripsFences(t *testing.T) {
	raw := "```json\n[{\"file_type\":\"Lease Agreement\",\"category\":\"Legal\"}]\n```"
	wires, err := parseClassificationArray(raw)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if wires[0].FileType != "Lease Agreement" {
		t.Fatalf("unexpected result: %+v", wires)
	}
}

func TestParseClassificationWrapsSingleObject(t *testing.T) {
	raw := `{"file_type":"Invoice","category":"Financials"}`
	wires, err := parseClassificationArray(raw)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if len(wires) != 1 || wires[0].Category != "Financials" {
		t.Fatalf("unexpected result: %+v", wires)
	}
}

func TestParseClassificationExtractsEmbeddedArray(t *testing.T) {
	raw := `Here is the classification you asked for:
[{"file_type":"Cashflow","category":"Appraisals"}]
Let me know if you need anything else.`
	wires, err := parseClassificationArray(raw)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if wires[0].FileType != "Cashflow" {
		t.Fatalf("unexpected result: %+v", wires)
	}
}

func TestParseClassificationErrorCarriesSnippet(t *testing.T) {
	raw := "I am sorry, I cannot help with that. " + strings.Repeat("x", 1000)
	_, err := parseClassificationArray(raw)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !domain.IsKind(err, domain.ErrResponseParse) {
		t.Fatalf("expected ErrResponseParse, got %v", err)
	}
	if !strings.Contains(err.Error(), "I am sorry") {
		t.Fatalf("error lost response snippet: %v", err)
	}
	if len(err.Error()) > 700 {
		t.Fatalf("snippet not truncated, error length %d", len(err.Error()))
	}
}

func TestParseFieldsByIndexKeyedObject(t *testing.T) {
	raw := `{"0":[{"field_path":"financials.loanAmount","value":"2500000"}],"1":[]}`
	out := parseFieldsByIndex(raw, []int{0, 1})

	if len(out[0]) != 1 || out[0][0].FieldPath != "financials.loanAmount" {
		t.Fatalf("unexpected keyed parse: %+v", out)
	}
	if len(out[1]) != 0 {
		t.Fatalf("index 1 should be empty: %+v", out[1])
	}
}

func TestParseFieldsByIndexFlatArray(t *testing.T) {
	raw := `[
	  {"document_index":2,"field_path":"parties.borrower","value":"Acme"},
	  {"document_index":2,"field_path":"dates.completionDate","value":"2026-01-31"},
	  {"document_index":5,"field_path":"financials.ltv","value":"65%"}
	]`
	out := parseFieldsByIndex(raw, []int{2, 5})

	if len(out[2]) != 2 {
		t.Fatalf("index 2 fields = %d, want 2", len(out[2]))
	}
	if len(out[5]) != 1 {
		t.Fatalf("index 5 fields = %d, want 1", len(out[5]))
	}
}

func TestParseFieldsByIndexUnparsableYieldsEmptyLists(t *testing.T) {
	out := parseFieldsByIndex("no json here at all", []int{0, 1, 2})

	if len(out) != 3 {
		t.Fatalf("expected entries for all 3 indexes, got %d", len(out))
	}
	for index, fields := range out {
		if len(fields) != 0 {
			t.Fatalf("index %d unexpectedly has fields: %+v", index, fields)
		}
	}
}

func TestParseFieldsByIndexRecoversEmbeddedObject(t *testing.T) {
	raw := "The extracted data:\n{\"3\":[{\"field_path\":\"property.address\",\"value\":\"1 Main St\"}]}\nDone."
	out := parseFieldsByIndex(raw, []int{3})
	if len(out[3]) != 1 {
		t.Fatalf("embedded object not recovered: %+v", out)
	}
}

func TestNormalizeFieldDefaults(t *testing.T) {
	field := normalizeField(wireField{
		FieldPath:  "financials.loanAmount",
		Value:      "2500000",
		Confidence: 1.7,
	})

	if field.Category != "financials" {
		t.Fatalf("category = %q, want financials", field.Category)
	}
	if len(field.TemplateTags) != 1 || field.TemplateTags[0] != "general" {
		t.Fatalf("template tags = %v, want [general]", field.TemplateTags)
	}
	if !field.IsCanonical {
		t.Fatal("non-custom path must default to canonical")
	}
	if field.Confidence != 1 {
		t.Fatalf("confidence = %v, want clamped to 1", field.Confidence)
	}
}

func TestNormalizeFieldCustomPathNotCanonical(t *testing.T) {
	field := normalizeField(wireField{FieldPath: "custom.brokerNotes", Value: "call Monday"})
	if field.IsCanonical {
		t.Fatal("custom.* path must not be canonical when unset")
	}
	if field.Category != "custom" {
		t.Fatalf("category = %q, want custom", field.Category)
	}
}

func TestNormalizeFieldExplicitCanonicalWins(t *testing.T) {
	canonical := true
	field := normalizeField(wireField{FieldPath: "custom.rate", IsCanonical: &canonical})
	if !field.IsCanonical {
		t.Fatal("explicit is_canonical must win over path inference")
	}
}

func TestTruncateHeadTailSplit(t *testing.T) {
	text := strings.Repeat("H", 10000) + strings.Repeat("T", 10000)
	out := truncateHeadTail(text, 1000)

	if !strings.HasPrefix(out, "H") || !strings.HasSuffix(out, "T") {
		t.Fatal("head/tail not preserved")
	}
	if !strings.Contains(out, "truncated") {
		t.Fatal("marker missing")
	}
	parts := strings.Split(out, "\n[... truncated ...]\n")
	if len(parts[0]) != 800 || len(parts[1]) != 200 {
		t.Fatalf("head/tail = %d/%d, want 800/200", len(parts[0]), len(parts[1]))
	}
}
