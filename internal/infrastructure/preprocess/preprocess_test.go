package preprocess

import (
	"context"
	"strings"
	"testing"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

func TestRedbookFilenameSetsAppraisalHints(t *testing.T) {
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName:  "RedBook_Valuation_123.pdf",
		MediaType: "application/pdf",
	})

	if doc.Hints.FilenameTypeHint != "RedBook Valuation" {
		t.Fatalf("type hint = %q, want RedBook Valuation", doc.Hints.FilenameTypeHint)
	}
	if doc.Hints.FilenameCategoryHint != "Appraisals" {
		t.Fatalf("category hint = %q, want Appraisals", doc.Hints.FilenameCategoryHint)
	}
}

func TestPassportScanSetsIdentityAndImageFlags(t *testing.T) {
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName:  "passport_scan.jpg",
		MediaType: "image/jpeg",
		Data:      []byte{0xff, 0xd8, 0xff},
	})

	if !doc.Hints.IsIdentity {
		t.Fatal("IsIdentity = false, want true")
	}
	if !doc.Hints.IsImage {
		t.Fatal("IsImage = false, want true")
	}
	if doc.Hints.FilenameTypeHint != "Passport" {
		t.Fatalf("type hint = %q, want Passport", doc.Hints.FilenameTypeHint)
	}
	if doc.Content.Kind != domain.ContentImage || doc.Content.Base64Data == "" {
		t.Fatalf("image content not embedded: %+v", doc.Content)
	}
}

func TestFirstMatchingPatternWins(t *testing.T) {
	// "redbook" precedes the generic "valuation" rule in the table.
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName: "redbook_valuation.pdf",
	})
	if doc.Hints.FilenameTypeHint != "RedBook Valuation" {
		t.Fatalf("type hint = %q, want RedBook Valuation", doc.Hints.FilenameTypeHint)
	}
}

func TestKeywordScanReadsTextHead(t *testing.T) {
	text := "This facility agreement sets the interest rate for the loan."
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName: "scan001.txt",
		Text:     text,
	})

	if !doc.Hints.IsFinancial {
		t.Fatal("IsFinancial = false, want true")
	}
	if !doc.Hints.IsLegal {
		t.Fatal("IsLegal = false, want true")
	}
}

func TestKeywordScanIgnoresTextBeyondProbe(t *testing.T) {
	text := strings.Repeat("x", textProbeChars) + " passport"
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName: "notes.txt",
		Text:     text,
	})
	if doc.Hints.IsIdentity {
		t.Fatal("IsIdentity = true from text beyond the 2000-char probe")
	}
}

func TestMatchedTagsAreDeduplicated(t *testing.T) {
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName: "passport_kyc.txt",
		Text:     "passport identity kyc",
	})

	seen := map[string]int{}
	for _, tag := range doc.Hints.MatchedTags {
		seen[tag]++
		if seen[tag] > 1 {
			t.Fatalf("tag %q appears more than once in %v", tag, doc.Hints.MatchedTags)
		}
	}
}

func TestSmartTruncationKeepsHeadAndTail(t *testing.T) {
	head := strings.Repeat("H", 3500)
	tail := strings.Repeat("T", 3500)
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName: "long.txt",
		Text:     head + tail,
	})

	if !doc.Content.Truncated {
		t.Fatal("Truncated = false for oversized text")
	}
	if !strings.Contains(doc.Content.Text, truncationMarker) {
		t.Fatal("truncation marker missing")
	}
	if !strings.HasPrefix(doc.Content.Text, "H") || !strings.HasSuffix(doc.Content.Text, "T") {
		t.Fatal("head/tail content not preserved")
	}
	// 75/25 head/tail split of the 4000-char budget.
	parts := strings.Split(doc.Content.Text, truncationMarker)
	if len(parts) != 2 {
		t.Fatalf("expected one marker, got %d segments", len(parts))
	}
	if len(parts[0]) != 3000 || len(parts[1]) != 1000 {
		t.Fatalf("head/tail = %d/%d, want 3000/1000", len(parts[0]), len(parts[1]))
	}
}

func TestUnreadableContentSubstitutesPlaceholder(t *testing.T) {
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName:  "corrupt.bin",
		MediaType: "application/octet-stream",
		Data:      []byte{0x00, 0x01, 0xff, 0xfe},
	})

	if doc.Content.Kind != domain.ContentText {
		t.Fatalf("kind = %q, want text placeholder", doc.Content.Kind)
	}
	if !strings.Contains(doc.Content.Text, "content unavailable") {
		t.Fatalf("placeholder missing, got %q", doc.Content.Text)
	}
}

func TestMalformedPDFFallsBackToEmbedding(t *testing.T) {
	data := []byte("%PDF-1.4 not really a pdf")
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName:  "broken.pdf",
		MediaType: "application/pdf",
		Data:      data,
	})

	if doc.Content.Kind != domain.ContentPDFPages {
		t.Fatalf("kind = %q, want pdf_pages", doc.Content.Kind)
	}
	if doc.Content.Base64Data == "" {
		t.Fatal("expected base64 embedding for PDF without extractable text")
	}
}

func TestCSVSpreadsheetUsesRawPreview(t *testing.T) {
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName:  "rent_roll.csv",
		MediaType: "text/csv",
		Data:      []byte("unit,rent\nA1,1200\n"),
	})

	if doc.Content.Kind != domain.ContentSpreadsheet {
		t.Fatalf("kind = %q, want spreadsheet", doc.Content.Kind)
	}
	if !doc.Hints.IsSpreadsheet {
		t.Fatal("IsSpreadsheet = false, want true")
	}
	if !strings.Contains(doc.Content.Text, "rent") {
		t.Fatalf("preview missing csv content: %q", doc.Content.Text)
	}
}

func TestEmptySpreadsheetGetsPlaceholder(t *testing.T) {
	doc := New().Preprocess(context.Background(), 0, domain.InputFile{
		FileName:  "model.xlsx",
		MediaType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	})

	if !strings.Contains(doc.Content.Text, "content unavailable") {
		t.Fatalf("placeholder missing, got %q", doc.Content.Text)
	}
}
