package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

// Classifier is the live ports.ChunkClassifier backed by the completion
// oracle.
type Classifier struct {
	client *Client
}

func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) Model() string { return c.client.Model() }

func (c *Classifier) ClassifyChunk(ctx context.Context, chunk ports.ClassificationChunk) (*ports.ChunkResult, error) {
	raw, usage, latencyMs, err := c.client.complete(ctx, "classify",
		buildSystemBlocks(chunk), buildUserBlocks(chunk))
	if err != nil {
		return nil, fmt.Errorf("classify chunk of %d: %w", len(chunk.Documents), err)
	}

	wires, err := parseClassificationArray(raw)
	if err != nil {
		return nil, err
	}
	if len(wires) != len(chunk.Documents) {
		slog.Warn("classification_count_mismatch",
			"expected", len(chunk.Documents),
			"received", len(wires),
		)
	}

	result := &ports.ChunkResult{
		Documents: mapClassifications(wires, chunk.Documents),
		Usage: ports.OracleUsage{
			InputTokens:         usage.InputTokens,
			OutputTokens:        usage.OutputTokens,
			CacheReadTokens:     usage.CacheReadInputTokens,
			CacheCreationTokens: usage.CacheCreationInputTokens,
			LatencyMs:           latencyMs,
		},
	}
	return result, nil
}

// mapClassifications matches wire objects to input documents. An explicit
// document_index wins when it names a document of this chunk; otherwise the
// wire object is taken positionally.
func mapClassifications(wires []wireClassification, docs []domain.BatchDocument) []domain.DocumentClassification {
	byIndex := make(map[int]domain.BatchDocument, len(docs))
	for _, doc := range docs {
		byIndex[doc.Index] = doc
	}

	out := make([]domain.DocumentClassification, 0, len(wires))
	for position, wire := range wires {
		var doc domain.BatchDocument
		switch {
		case wire.DocumentIndex != nil && hasIndex(byIndex, *wire.DocumentIndex):
			doc = byIndex[*wire.DocumentIndex]
		case position < len(docs):
			doc = docs[position]
		default:
			continue
		}
		out = append(out, toDomainClassification(wire, doc))
	}
	return out
}

func hasIndex(m map[int]domain.BatchDocument, index int) bool {
	_, ok := m[index]
	return ok
}

func toDomainClassification(wire wireClassification, doc domain.BatchDocument) domain.DocumentClassification {
	matches := make([]domain.ChecklistMatch, 0, len(wire.ChecklistMatches))
	for _, m := range wire.ChecklistMatches {
		matches = append(matches, domain.ChecklistMatch{
			ItemID:     m.ItemID,
			Label:      m.Label,
			Confidence: domain.ClampConfidence(m.Confidence),
		})
	}

	return domain.DocumentClassification{
		DocumentIndex: doc.Index,
		FileName:      doc.FileName,
		Classification: domain.ClassificationDetails{
			FileType:         wire.FileType,
			Category:         wire.Category,
			SuggestedFolder:  wire.SuggestedFolder,
			TargetLevel:      wire.TargetLevel,
			Confidence:       domain.ClampConfidence(wire.Confidence),
			Reasoning:        wire.Reasoning,
			AlternativeTypes: wire.AlternativeTypes,
		},
		Summary: domain.DocumentSummary{
			ExecutiveSummary: wire.Summary.ExecutiveSummary,
			DocumentPurpose:  wire.Summary.DocumentPurpose,
			KeyEntities:      wire.Summary.KeyEntities,
			KeyTerms:         wire.Summary.KeyTerms,
			KeyDates:         wire.Summary.KeyDates,
			KeyAmounts:       wire.Summary.KeyAmounts,
		},
		ChecklistMatches: matches,
	}
}
