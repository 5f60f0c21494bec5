package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

// ResultMapper maps a finished pipeline result onto the persistent store: one
// analysis update per classified document plus one batch-level knowledge entry.
type ResultMapper struct {
	store  ports.AnalysisStore
	now    func() time.Time
	logger *slog.Logger
}

func NewResultMapper(store ports.AnalysisStore, logger *slog.Logger) *ResultMapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultMapper{store: store, now: time.Now, logger: logger}
}

func (m *ResultMapper) Persist(ctx context.Context, req domain.BatchRequest, result *domain.PipelineResult) error {
	for _, doc := range result.Documents {
		update := m.buildUpdate(req, result, doc)
		if err := m.store.UpdateAnalysis(ctx, req.BatchID, update); err != nil {
			return fmt.Errorf("persist analysis for document %d: %w", doc.DocumentIndex, err)
		}
	}

	entry := buildKnowledgeEntry(req, result)
	if err := m.store.CreateKnowledgeEntry(ctx, req.BatchID, entry); err != nil {
		return fmt.Errorf("persist knowledge entry: %w", err)
	}

	m.logger.Info("batch_result_persisted",
		"batch_id", req.BatchID,
		"documents", len(result.Documents),
		"failed", len(result.Errors),
	)
	return nil
}

func (m *ResultMapper) buildUpdate(req domain.BatchRequest, result *domain.PipelineResult, doc domain.DocumentClassification) domain.AnalysisUpdate {
	placement := result.Placements[doc.DocumentIndex]

	update := domain.AnalysisUpdate{
		DocumentIndex:    doc.DocumentIndex,
		FileName:         doc.FileName,
		Summary:          doc.Summary.ExecutiveSummary,
		FileTypeDetected: doc.Classification.FileType,
		Category:         doc.Classification.Category,
		TargetFolder:     placement.FolderKey,
		Confidence:       doc.Classification.Confidence,
		GeneratedDocumentCode: domain.DocumentCode(
			req.Client.ShortCode,
			doc.Classification.FileType,
			false,
			req.UploaderInitials,
			1,
			m.now(),
		),
	}

	if fields := result.Intelligence[doc.DocumentIndex]; len(fields) > 0 {
		extracted := make(map[string]any, len(fields))
		for _, field := range fields {
			extracted[field.FieldPath] = field.Value
		}
		update.ExtractedData = extracted
	}
	return update
}

func buildKnowledgeEntry(req domain.BatchRequest, result *domain.PipelineResult) domain.KnowledgeEntry {
	points := make([]string, 0, len(result.Documents))
	tagSet := make(map[string]struct{})
	for _, doc := range result.Documents {
		placement := result.Placements[doc.DocumentIndex]
		points = append(points, fmt.Sprintf("%s: %s -> %s", doc.FileName, doc.Classification.FileType, placement.FolderName))
		if doc.Classification.Category != "" {
			tagSet[strings.ToLower(doc.Classification.Category)] = struct{}{}
		}
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}

	content := fmt.Sprintf("Classified %d of %d documents for %s.",
		len(result.Documents), result.Metadata.BatchSize, req.Client.ClientName)
	if len(result.Errors) > 0 {
		content += fmt.Sprintf(" %d documents failed classification.", len(result.Errors))
	}

	return domain.KnowledgeEntry{
		Title:     fmt.Sprintf("Document batch %s", req.BatchID),
		Content:   content,
		KeyPoints: points,
		Tags:      tags,
	}
}
