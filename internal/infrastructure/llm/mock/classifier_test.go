package mock

import (
	"context"
	"reflect"
	"testing"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
	"github.com/dealdesk/dealdocs/internal/infrastructure/reference"
)

func chunkFor(docs ...domain.BatchDocument) ports.ClassificationChunk {
	return ports.ClassificationChunk{
		Documents:  docs,
		References: reference.SystemReferences(),
	}
}

func TestClassifyHintBackedByReference(t *testing.T) {
	doc := domain.BatchDocument{
		Index:    0,
		FileName: "RedBook_Valuation_123.pdf",
		Hints: domain.DocumentHints{
			FilenameTypeHint:     "RedBook Valuation",
			FilenameCategoryHint: "Appraisals",
			MatchedTags:          []string{"valuation", "redbook"},
		},
	}

	result, err := NewClassifier().ClassifyChunk(context.Background(), chunkFor(doc))
	if err != nil {
		t.Fatalf("ClassifyChunk() error = %v", err)
	}

	got := result.Documents[0].Classification
	if got.FileType != "RedBook Valuation" || got.Category != "Appraisals" {
		t.Fatalf("classification = %q/%q", got.FileType, got.Category)
	}
	if got.Confidence != 0.92 {
		t.Fatalf("confidence = %v, want 0.92", got.Confidence)
	}
}

func TestClassifyHintWithoutReference(t *testing.T) {
	doc := domain.BatchDocument{
		Index:    0,
		FileName: "bespoke_report.pdf",
		Hints:    domain.DocumentHints{FilenameTypeHint: "Bespoke Report", FilenameCategoryHint: "Appraisals"},
	}

	result, err := NewClassifier().ClassifyChunk(context.Background(), chunkFor(doc))
	if err != nil {
		t.Fatalf("ClassifyChunk() error = %v", err)
	}

	got := result.Documents[0].Classification
	if got.FileType != "Bespoke Report" {
		t.Fatalf("file type = %q", got.FileType)
	}
	if got.Confidence != 0.78 {
		t.Fatalf("confidence = %v, want 0.78", got.Confidence)
	}
}

func TestClassifyTagOverlapScales(t *testing.T) {
	refs := []domain.ReferenceDocument{
		{FileType: "Lease Agreement", Category: "Legal", Tags: []string{"lease", "tenancy", "landlord"}},
	}
	doc := domain.BatchDocument{
		Index:    0,
		FileName: "scan0001.pdf",
		Hints:    domain.DocumentHints{MatchedTags: []string{"lease", "tenancy"}},
	}

	result, err := NewClassifier().ClassifyChunk(context.Background(), ports.ClassificationChunk{
		Documents:  []domain.BatchDocument{doc},
		References: refs,
	})
	if err != nil {
		t.Fatalf("ClassifyChunk() error = %v", err)
	}

	got := result.Documents[0].Classification
	if got.FileType != "Lease Agreement" {
		t.Fatalf("file type = %q", got.FileType)
	}
	if got.Confidence != 0.75 {
		t.Fatalf("confidence = %v, want 0.55 + 2*0.10", got.Confidence)
	}
}

func TestClassifySingleTagIsNotEnough(t *testing.T) {
	refs := []domain.ReferenceDocument{
		{FileType: "Lease Agreement", Category: "Legal", Tags: []string{"lease"}},
	}
	doc := domain.BatchDocument{
		Index:    0,
		FileName: "scan0001.pdf",
		Hints:    domain.DocumentHints{MatchedTags: []string{"lease"}},
	}

	result, err := NewClassifier().ClassifyChunk(context.Background(), ports.ClassificationChunk{
		Documents:  []domain.BatchDocument{doc},
		References: refs,
	})
	if err != nil {
		t.Fatalf("ClassifyChunk() error = %v", err)
	}
	if got := result.Documents[0].Classification.FileType; got != "Other" {
		t.Fatalf("single-tag overlap classified as %q, want fallback", got)
	}
}

func TestClassifyCharacteristicDefaults(t *testing.T) {
	cases := []struct {
		name       string
		hints      domain.DocumentHints
		fileType   string
		category   string
		confidence float64
	}{
		{"identity", domain.DocumentHints{IsIdentity: true}, "Passport", "KYC", 0.65},
		{"financial spreadsheet", domain.DocumentHints{IsFinancial: true, IsSpreadsheet: true}, "Cashflow", "Appraisals", 0.60},
		{"image", domain.DocumentHints{IsImage: true}, "Photograph", "Photographs", 0.60},
		{"legal", domain.DocumentHints{IsLegal: true}, "Legal Document", "Legal", 0.55},
		{"financial", domain.DocumentHints{IsFinancial: true}, "Financial Statement", "Financials", 0.55},
		{"nothing", domain.DocumentHints{}, "Other", "Other", 0.40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := domain.BatchDocument{Index: 0, FileName: "file.bin", Hints: tc.hints}
			result, err := NewClassifier().ClassifyChunk(context.Background(), ports.ClassificationChunk{Documents: []domain.BatchDocument{doc}})
			if err != nil {
				t.Fatalf("ClassifyChunk() error = %v", err)
			}
			got := result.Documents[0].Classification
			if got.FileType != tc.fileType || got.Category != tc.category || got.Confidence != tc.confidence {
				t.Fatalf("got %q/%q/%v, want %q/%q/%v",
					got.FileType, got.Category, got.Confidence, tc.fileType, tc.category, tc.confidence)
			}
		})
	}
}

func TestClassifyLegalAndFinancialOutrankImage(t *testing.T) {
	cases := []struct {
		name     string
		hints    domain.DocumentHints
		fileType string
		category string
	}{
		{"legal image", domain.DocumentHints{IsLegal: true, IsImage: true}, "Legal Document", "Legal"},
		{"financial image", domain.DocumentHints{IsFinancial: true, IsImage: true}, "Financial Statement", "Financials"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := domain.BatchDocument{Index: 0, FileName: "scan.jpg", Hints: tc.hints}
			result, err := NewClassifier().ClassifyChunk(context.Background(), ports.ClassificationChunk{Documents: []domain.BatchDocument{doc}})
			if err != nil {
				t.Fatalf("ClassifyChunk() error = %v", err)
			}
			got := result.Documents[0].Classification
			if got.FileType != tc.fileType || got.Category != tc.category || got.Confidence != 0.55 {
				t.Fatalf("got %q/%q/%v, want %q/%q/0.55", got.FileType, got.Category, got.Confidence, tc.fileType, tc.category)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	chunk := chunkFor(
		domain.BatchDocument{Index: 0, FileName: "passport_scan.jpg", Hints: domain.DocumentHints{FilenameTypeHint: "Passport", IsIdentity: true, IsImage: true}},
		domain.BatchDocument{Index: 1, FileName: "q3.xlsx", Hints: domain.DocumentHints{IsFinancial: true, IsSpreadsheet: true}},
	)

	first, err := NewClassifier().ClassifyChunk(context.Background(), chunk)
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second, err := NewClassifier().ClassifyChunk(context.Background(), chunk)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical chunks produced different results")
	}
}

func TestClassifyMatchesChecklistByLabelWord(t *testing.T) {
	chunk := chunkFor(domain.BatchDocument{
		Index:    0,
		FileName: "passport_scan.jpg",
		Hints:    domain.DocumentHints{FilenameTypeHint: "Passport"},
	})
	chunk.Checklist = []domain.ChecklistItem{
		{ID: "chk-1", Label: "Certified passport copy"},
		{ID: "chk-2", Label: "Signed facility letter"},
	}

	result, err := NewClassifier().ClassifyChunk(context.Background(), chunk)
	if err != nil {
		t.Fatalf("ClassifyChunk() error = %v", err)
	}

	matches := result.Documents[0].ChecklistMatches
	if len(matches) != 1 || matches[0].ItemID != "chk-1" {
		t.Fatalf("checklist matches = %+v, want only chk-1", matches)
	}
}

func TestClassifyLatencyScalesAndCaps(t *testing.T) {
	docs := make([]domain.BatchDocument, 10)
	for i := range docs {
		docs[i] = domain.BatchDocument{Index: i, FileName: "f.pdf"}
	}

	small, _ := NewClassifier().ClassifyChunk(context.Background(), chunkFor(docs[:2]...))
	large, _ := NewClassifier().ClassifyChunk(context.Background(), chunkFor(docs...))

	if small.Usage.LatencyMs != 300 {
		t.Fatalf("2-doc latency = %d, want 300", small.Usage.LatencyMs)
	}
	if large.Usage.LatencyMs != latencyCapMs {
		t.Fatalf("10-doc latency = %d, want capped at %d", large.Usage.LatencyMs, latencyCapMs)
	}
}

func TestExtractorFindsAmountAndDate(t *testing.T) {
	doc := domain.BatchDocument{Index: 3, FileName: "Indicative_Terms.pdf"}
	text := "Facility of £2,500,000 available until 2026-03-31 subject to valuation."

	fields, usage, err := NewExtractor().ExtractSingle(context.Background(), doc, text)
	if err != nil {
		t.Fatalf("ExtractSingle() error = %v", err)
	}
	if usage.InputTokens == 0 {
		t.Fatal("usage not recorded")
	}

	byPath := map[string]domain.IntelligenceField{}
	for _, field := range fields {
		byPath[field.FieldPath] = field
	}
	if byPath["general.documentTitle"].Value != "Indicative Terms" {
		t.Fatalf("title = %q", byPath["general.documentTitle"].Value)
	}
	if byPath["financials.primaryAmount"].Value != "2,500,000" {
		t.Fatalf("amount = %q", byPath["financials.primaryAmount"].Value)
	}
	if byPath["dates.referenceDate"].Value != "2026-03-31" {
		t.Fatalf("date = %q", byPath["dates.referenceDate"].Value)
	}
}

func TestExtractBatchCoversEveryDocument(t *testing.T) {
	docs := []domain.BatchDocument{
		{Index: 0, FileName: "a.pdf", Content: domain.ProcessedContent{Text: "no structured values"}},
		{Index: 4, FileName: "b.pdf"},
	}
	fullTexts := map[int]string{4: "Total $100,000 due"}

	out, _, err := NewExtractor().ExtractBatch(context.Background(), docs, fullTexts)
	if err != nil {
		t.Fatalf("ExtractBatch() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("entries = %d, want 2", len(out))
	}
	if len(out[0]) != 1 {
		t.Fatalf("doc 0 should only carry the title field, got %+v", out[0])
	}
	if len(out[4]) != 2 {
		t.Fatalf("doc 4 should carry title and amount, got %+v", out[4])
	}
}
