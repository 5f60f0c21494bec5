package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

type userSourceFake struct {
	refs  []domain.ReferenceDocument
	err   error
	calls int
}

func (f *userSourceFake) ListReferences(context.Context) ([]domain.ReferenceDocument, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.refs, nil
}

func hintedDoc(typeHint string, tags ...string) domain.BatchDocument {
	return domain.BatchDocument{
		Hints: domain.DocumentHints{
			FilenameTypeHint: typeHint,
			MatchedTags:      tags,
		},
	}
}

func TestResolveRanksExactTypeHintFirst(t *testing.T) {
	resolver := NewResolver(&userSourceFake{}, Options{})

	sel, err := resolver.Resolve(context.Background(), []domain.BatchDocument{
		hintedDoc("RedBook Valuation", "valuation", "appraisal"),
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(sel.References) == 0 {
		t.Fatal("no references selected")
	}
	if sel.References[0].FileType != "RedBook Valuation" {
		t.Fatalf("top reference = %q, want RedBook Valuation", sel.References[0].FileType)
	}
	if sel.CacheHit {
		t.Fatal("first resolve reported a cache hit")
	}
}

func TestResolveSecondCallWithinTTLHitsCache(t *testing.T) {
	source := &userSourceFake{}
	resolver := NewResolver(source, Options{TTL: time.Minute})
	docs := []domain.BatchDocument{hintedDoc("Passport", "kyc")}

	first, err := resolver.Resolve(context.Background(), docs)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := resolver.Resolve(context.Background(), docs)
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}

	if !second.CacheHit {
		t.Fatal("second resolve within TTL missed the cache")
	}
	if source.calls != 1 {
		t.Fatalf("source called %d times, want 1", source.calls)
	}
	if len(first.References) != len(second.References) {
		t.Fatalf("reference sets differ across cached calls: %d vs %d", len(first.References), len(second.References))
	}
	for i := range first.References {
		if first.References[i].ID != second.References[i].ID {
			t.Fatalf("reference %d differs: %s vs %s", i, first.References[i].ID, second.References[i].ID)
		}
	}
}

func TestResolveReloadsAfterTTLExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	source := &userSourceFake{}
	resolver := NewResolver(source, Options{TTL: time.Minute, Now: func() time.Time { return clock() }})
	docs := []domain.BatchDocument{hintedDoc("Passport")}

	if _, err := resolver.Resolve(context.Background(), docs); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	now = now.Add(2 * time.Minute)

	sel, err := resolver.Resolve(context.Background(), docs)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if sel.CacheHit {
		t.Fatal("expired snapshot was served")
	}
	if source.calls != 2 {
		t.Fatalf("source called %d times, want 2", source.calls)
	}
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	source := &userSourceFake{}
	resolver := NewResolver(source, Options{TTL: time.Hour})
	docs := []domain.BatchDocument{hintedDoc("Passport")}

	if _, err := resolver.Resolve(context.Background(), docs); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	resolver.Invalidate()
	if _, err := resolver.Resolve(context.Background(), docs); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("source called %d times after invalidate, want 2", source.calls)
	}
}

func TestResolveFallsBackToOnePerCategory(t *testing.T) {
	resolver := NewResolver(&userSourceFake{}, Options{})

	sel, err := resolver.Resolve(context.Background(), []domain.BatchDocument{
		{FileName: "mystery.bin"},
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(sel.References) == 0 {
		t.Fatal("fallback selected zero references")
	}
	seen := map[string]bool{}
	for _, ref := range sel.References {
		if seen[ref.Category] {
			t.Fatalf("category %q selected twice in fallback", ref.Category)
		}
		seen[ref.Category] = true
	}
}

func TestMergeUnionsTagsAndPrefersUserContent(t *testing.T) {
	user := []domain.ReferenceDocument{
		{
			ID: "user-1", FileType: "redbook valuation", Category: "Appraisals",
			Tags:     []string{"desktop", "valuation"},
			Keywords: []string{"drive-by"},
			Content:  "Client-specific valuation guidance.",
			Source:   domain.ReferenceUser, IsActive: true,
		},
	}

	merged := mergeCorpora(SystemReferences(), user)

	var found *domain.ReferenceDocument
	for i := range merged {
		if merged[i].FileType == "RedBook Valuation" {
			found = &merged[i]
			break
		}
	}
	if found == nil {
		t.Fatal("merged corpus lost the redbook entry")
	}
	if found.Content != "Client-specific valuation guidance." {
		t.Fatalf("user content did not take precedence: %q", found.Content)
	}
	hasTag := func(tag string) bool {
		for _, tg := range found.Tags {
			if tg == tag {
				return true
			}
		}
		return false
	}
	if !hasTag("desktop") || !hasTag("redbook") {
		t.Fatalf("tags not unioned: %v", found.Tags)
	}
	if found.Source != domain.ReferenceUser {
		t.Fatalf("source = %q, want user", found.Source)
	}
}

func TestMergeFiltersInactive(t *testing.T) {
	user := []domain.ReferenceDocument{
		{FileType: "Passport", Category: "KYC", IsActive: false},
	}
	merged := mergeCorpora(SystemReferences(), user)
	for _, ref := range merged {
		if ref.FileType == "Passport" {
			t.Fatal("inactive override still present in merged corpus")
		}
	}
}

func TestResolvePropagatesSourceError(t *testing.T) {
	resolver := NewResolver(&userSourceFake{err: errors.New("store down")}, Options{})
	if _, err := resolver.Resolve(context.Background(), nil); err == nil {
		t.Fatal("expected error from failing source")
	}
}

func TestScoringWeights(t *testing.T) {
	ref := domain.ReferenceDocument{
		FileType: "Bank Statement",
		Category: "Financials",
		Tags:     []string{"financial", "bank"},
		Keywords: []string{"balance"},
	}
	signal := batchSignal{
		typeHints: map[string]bool{"bank statement": true},
		tags:      map[string]bool{"financials": true, "financial": true, "bank": true, "balance": true},
	}

	// +10 type hint, +5 category, +3*2 tags, +1 keyword.
	if got := scoreReference(ref, signal); got != 22 {
		t.Fatalf("score = %d, want 22", got)
	}
}
