package mock

import (
	"context"
	"fmt"
	"strings"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

// ModelName identifies mock output in persisted metadata.
const ModelName = "mock-classifier"

const (
	confidenceHintWithReference = 0.92
	confidenceHintOnly          = 0.78
	confidenceTagBase           = 0.55
	confidenceTagStep           = 0.10
	confidenceTagCap            = 0.85
	confidenceFallback          = 0.40

	minTagOverlap = 2

	latencyPerDocMs = 150
	latencyCapMs    = 1200
)

// Classifier is a deterministic ports.ChunkClassifier for environments without
// oracle credentials. The same chunk always yields the same classifications,
// derived purely from preprocessing hints and the supplied references.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

func (c *Classifier) Model() string { return ModelName }

func (c *Classifier) ClassifyChunk(_ context.Context, chunk ports.ClassificationChunk) (*ports.ChunkResult, error) {
	docs := make([]domain.DocumentClassification, 0, len(chunk.Documents))
	var inputTokens int
	for _, doc := range chunk.Documents {
		docs = append(docs, classifyDocument(doc, chunk.References, chunk.Checklist))
		inputTokens += estimateDocTokens(doc)
	}

	latency := int64(latencyPerDocMs * len(chunk.Documents))
	if latency > latencyCapMs {
		latency = latencyCapMs
	}

	return &ports.ChunkResult{
		Documents: docs,
		Usage: ports.OracleUsage{
			InputTokens:  inputTokens,
			OutputTokens: 120 * len(chunk.Documents),
			LatencyMs:    latency,
		},
	}, nil
}

// classifyDocument walks a fixed rule cascade, most specific first.
func classifyDocument(doc domain.BatchDocument, refs []domain.ReferenceDocument, checklist []domain.ChecklistItem) domain.DocumentClassification {
	hints := doc.Hints
	details := domain.ClassificationDetails{Confidence: confidenceFallback, FileType: "Other", Category: "Other"}

	tagRef, tagOverlap := bestTagMatch(refs, hints.MatchedTags)

	switch {
	case hints.FilenameTypeHint != "":
		if ref := referenceByType(refs, hints.FilenameTypeHint); ref != nil {
			details.FileType = ref.FileType
			details.Category = ref.Category
			details.Confidence = confidenceHintWithReference
			details.Reasoning = fmt.Sprintf("filename pattern matched reference type %q", ref.FileType)
			break
		}
		details.FileType = hints.FilenameTypeHint
		details.Category = hints.FilenameCategoryHint
		if details.Category == "" {
			details.Category = "Other"
		}
		details.Confidence = confidenceHintOnly
		details.Reasoning = "filename pattern matched with no backing reference"

	case tagRef != nil:
		details.FileType = tagRef.FileType
		details.Category = tagRef.Category
		details.Confidence = tagConfidence(tagOverlap)
		details.Reasoning = fmt.Sprintf("%d content tags matched reference type %q", tagOverlap, tagRef.FileType)

	case hints.IsIdentity:
		details.FileType = "Passport"
		details.Category = "KYC"
		details.Confidence = 0.65
		details.Reasoning = "identity markers in content"

	case hints.IsFinancial && hints.IsSpreadsheet:
		details.FileType = "Cashflow"
		details.Category = "Appraisals"
		details.Confidence = 0.60
		details.Reasoning = "financial spreadsheet"

	case hints.IsLegal:
		details.FileType = "Legal Document"
		details.Category = "Legal"
		details.Confidence = 0.55
		details.Reasoning = "legal language in content"

	case hints.IsFinancial:
		details.FileType = "Financial Statement"
		details.Category = "Financials"
		details.Confidence = 0.55
		details.Reasoning = "financial language in content"

	case hints.IsImage:
		details.FileType = "Photograph"
		details.Category = "Photographs"
		details.Confidence = 0.60
		details.Reasoning = "image upload with no stronger signal"

	default:
		details.Reasoning = "no signal matched"
	}

	return domain.DocumentClassification{
		DocumentIndex:    doc.Index,
		FileName:         doc.FileName,
		Classification:   details,
		Summary:          syntheticSummary(doc, details),
		ChecklistMatches: matchChecklist(doc, details, checklist),
	}
}

func referenceByType(refs []domain.ReferenceDocument, fileType string) *domain.ReferenceDocument {
	for i := range refs {
		if strings.EqualFold(refs[i].FileType, fileType) {
			return &refs[i]
		}
	}
	return nil
}

// bestTagMatch picks the reference sharing the most tags with the document,
// requiring at least minTagOverlap. Ties break on slice order so the result is
// stable.
func bestTagMatch(refs []domain.ReferenceDocument, tags []string) (*domain.ReferenceDocument, int) {
	if len(tags) == 0 {
		return nil, 0
	}
	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[strings.ToLower(tag)] = struct{}{}
	}

	var best *domain.ReferenceDocument
	bestOverlap := 0
	for i := range refs {
		overlap := 0
		for _, tag := range refs[i].Tags {
			if _, ok := tagSet[strings.ToLower(tag)]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = &refs[i]
			bestOverlap = overlap
		}
	}
	if bestOverlap < minTagOverlap {
		return nil, 0
	}
	return best, bestOverlap
}

func tagConfidence(overlap int) float64 {
	confidence := confidenceTagBase + confidenceTagStep*float64(overlap)
	if confidence > confidenceTagCap {
		confidence = confidenceTagCap
	}
	return confidence
}

func syntheticSummary(doc domain.BatchDocument, details domain.ClassificationDetails) domain.DocumentSummary {
	return domain.DocumentSummary{
		ExecutiveSummary: fmt.Sprintf("%s classified as %s (%s).", doc.FileName, details.FileType, details.Category),
		DocumentPurpose:  fmt.Sprintf("Appears to serve as a %s.", strings.ToLower(details.FileType)),
	}
}

// matchChecklist marks items whose label shares a significant word with the
// filename or resolved type.
func matchChecklist(doc domain.BatchDocument, details domain.ClassificationDetails, items []domain.ChecklistItem) []domain.ChecklistMatch {
	if len(items) == 0 {
		return nil
	}
	haystack := strings.ToLower(doc.FileName + " " + details.FileType)

	var matches []domain.ChecklistMatch
	for _, item := range items {
		for _, word := range strings.Fields(strings.ToLower(item.Label)) {
			if len(word) < 4 {
				continue
			}
			if strings.Contains(haystack, word) {
				matches = append(matches, domain.ChecklistMatch{ItemID: item.ID, Label: item.Label, Confidence: 0.70})
				break
			}
		}
	}
	return matches
}

func estimateDocTokens(doc domain.BatchDocument) int {
	switch doc.Content.Kind {
	case domain.ContentImage:
		return 1200
	default:
		return len(doc.Content.Text)/4 + 50
	}
}
