package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

const (
	classificationSkillName = "batch-classification"
	extractionSkillName     = "intelligence-extraction"

	defaultBatchTimeout = 10 * time.Minute
)

// BatchPipelineUseCase orchestrates one classification run: preprocess every
// file concurrently, resolve references and the skill, chunk, classify chunk
// by chunk, then resolve placements and extract intelligence. A failed chunk
// produces per-document error records and never aborts the batch; callers see
// every input index in either Documents or Errors.
type BatchPipelineUseCase struct {
	preprocessor   ports.Preprocessor
	references     ports.ReferenceResolver
	skills         ports.SkillLoader
	chunker        ports.Chunker
	extractChunker ports.Chunker
	classifier     ports.ChunkClassifier
	extractor      ports.IntelligenceExtractor
	placement      ports.PlacementResolver
	folders        []domain.FolderOption
	batchTimeout   time.Duration
	logger         *slog.Logger
}

func NewBatchPipelineUseCase(
	preprocessor ports.Preprocessor,
	references ports.ReferenceResolver,
	skills ports.SkillLoader,
	chunker ports.Chunker,
	extractChunker ports.Chunker,
	classifier ports.ChunkClassifier,
	extractor ports.IntelligenceExtractor,
	placement ports.PlacementResolver,
	folders []domain.FolderOption,
	batchTimeout time.Duration,
	logger *slog.Logger,
) *BatchPipelineUseCase {
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchPipelineUseCase{
		preprocessor:   preprocessor,
		references:     references,
		skills:         skills,
		chunker:        chunker,
		extractChunker: extractChunker,
		classifier:     classifier,
		extractor:      extractor,
		placement:      placement,
		folders:        folders,
		batchTimeout:   batchTimeout,
		logger:         logger,
	}
}

func (uc *BatchPipelineUseCase) Run(ctx context.Context, req domain.BatchRequest) (*domain.PipelineResult, error) {
	if len(req.Files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "run batch",
			fmt.Errorf("batch %s has no files", req.BatchID))
	}

	ctx, cancel := context.WithTimeout(ctx, uc.batchTimeout)
	defer cancel()

	started := time.Now()
	docs := uc.preprocessAll(ctx, req.Files)

	selection := uc.resolveReferences(ctx, docs)
	skill, err := uc.skills.Load(ctx, classificationSkillName)
	if err != nil {
		return nil, fmt.Errorf("load skill %s: %w", classificationSkillName, err)
	}

	folders := req.AvailableFolders
	if len(folders) == 0 {
		folders = uc.folders
	}

	result := &domain.PipelineResult{
		Placements:   make(map[int]domain.PlacementResult),
		Intelligence: make(map[int][]domain.IntelligenceField),
		Metadata: domain.PipelineMetadata{
			Model:              uc.classifier.Model(),
			BatchSize:          len(req.Files),
			CachedReferenceHit: selection.CacheHit,
			ReferencesLoaded:   referenceNames(selection.References),
		},
	}

	for _, chunk := range uc.chunker.Chunk(docs) {
		uc.classifyChunk(ctx, ports.ClassificationChunk{
			Documents:    chunk,
			References:   selection.References,
			Skill:        skill,
			Client:       req.Client,
			Folders:      folders,
			Checklist:    req.ChecklistItems,
			Corrections:  req.Corrections,
			Instructions: req.Instructions,
		}, result)
	}

	for _, doc := range result.Documents {
		result.Placements[doc.DocumentIndex] = uc.placement.Resolve(doc.Classification, req.Client)
	}

	uc.extractIntelligence(ctx, docs, req.FullTexts, result)

	result.Success = len(result.Errors) == 0
	uc.logger.Info("batch_pipeline_finished",
		"batch_id", req.BatchID,
		"documents", len(result.Documents),
		"errors", len(result.Errors),
		"api_calls", result.Metadata.APICallsMade,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}

// preprocessAll fans out one goroutine per file. Preprocessing never fails, so
// the only coordination needed is index-stable placement into the result slice.
func (uc *BatchPipelineUseCase) preprocessAll(ctx context.Context, files []domain.InputFile) []domain.BatchDocument {
	docs := make([]domain.BatchDocument, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(index int, f domain.InputFile) {
			defer wg.Done()
			docs[index] = uc.preprocessor.Preprocess(ctx, index, f)
		}(i, file)
	}
	wg.Wait()
	return docs
}

// resolveReferences degrades to an empty selection rather than failing the
// batch; classification still works from hints and folders alone.
func (uc *BatchPipelineUseCase) resolveReferences(ctx context.Context, docs []domain.BatchDocument) domain.ReferenceSelection {
	selection, err := uc.references.Resolve(ctx, docs)
	if err != nil {
		uc.logger.Warn("reference_resolution_failed", "error", err)
		return domain.ReferenceSelection{}
	}
	return selection
}

// classifyChunk runs one oracle call and folds its outcome into the result.
// There is no retry here: transport-level retries already happened inside the
// classifier, so a surviving error fails the whole chunk.
func (uc *BatchPipelineUseCase) classifyChunk(ctx context.Context, chunk ports.ClassificationChunk, result *domain.PipelineResult) {
	chunkResult, err := uc.classifier.ClassifyChunk(ctx, chunk)
	result.Metadata.APICallsMade++
	if err != nil {
		uc.logger.Error("chunk_classification_failed",
			"documents", len(chunk.Documents),
			"error", err,
		)
		for _, doc := range chunk.Documents {
			result.Errors = append(result.Errors, domain.DocumentError{
				DocumentIndex: doc.Index,
				FileName:      doc.FileName,
				Error:         err.Error(),
			})
		}
		return
	}

	uc.reconcileChunk(chunk, chunkResult.Documents, result)
	addUsage(&result.Metadata, chunkResult.Usage)
}

// reconcileChunk enforces per-index accounting for one chunk: every chunk
// member lands in Documents or Errors exactly once. Only the first
// classification per index is kept, classifications naming an index outside
// the chunk are discarded, and members the oracle skipped become error
// records.
func (uc *BatchPipelineUseCase) reconcileChunk(chunk ports.ClassificationChunk, classified []domain.DocumentClassification, result *domain.PipelineResult) {
	members := make(map[int]bool, len(chunk.Documents))
	for _, doc := range chunk.Documents {
		members[doc.Index] = true
	}

	seen := make(map[int]bool, len(classified))
	for _, doc := range classified {
		if !members[doc.DocumentIndex] || seen[doc.DocumentIndex] {
			uc.logger.Warn("classification_discarded",
				"document_index", doc.DocumentIndex,
				"file_name", doc.FileName,
			)
			continue
		}
		seen[doc.DocumentIndex] = true
		result.Documents = append(result.Documents, doc)
	}

	for _, doc := range chunk.Documents {
		if seen[doc.Index] {
			continue
		}
		uc.logger.Warn("classification_missing",
			"document_index", doc.Index,
			"file_name", doc.FileName,
		)
		result.Errors = append(result.Errors, domain.DocumentError{
			DocumentIndex: doc.Index,
			FileName:      doc.FileName,
			Error:         "oracle returned no classification for this document",
		})
	}
}

// extractIntelligence runs the second pass over classified documents that have
// usable text. Candidates are grouped by the extraction chunker so each call
// carries a bounded number of documents and a bad response degrades one group,
// not the whole pass. A document already classified never moves to Errors
// here.
func (uc *BatchPipelineUseCase) extractIntelligence(ctx context.Context, docs []domain.BatchDocument, fullTexts map[int]string, result *domain.PipelineResult) {
	byIndex := make(map[int]domain.BatchDocument, len(docs))
	for _, doc := range docs {
		byIndex[doc.Index] = doc
	}

	var candidates []domain.BatchDocument
	for _, classified := range result.Documents {
		doc, ok := byIndex[classified.DocumentIndex]
		if !ok {
			continue
		}
		if fullTexts[doc.Index] == "" && doc.Content.Text == "" {
			continue
		}
		candidates = append(candidates, doc)
	}
	if len(candidates) == 0 {
		return
	}

	groups := [][]domain.BatchDocument{candidates}
	if uc.extractChunker != nil {
		groups = uc.extractChunker.Chunk(candidates)
	}
	for _, group := range groups {
		uc.extractGroup(ctx, group, fullTexts, result)
	}
}

func (uc *BatchPipelineUseCase) extractGroup(ctx context.Context, group []domain.BatchDocument, fullTexts map[int]string, result *domain.PipelineResult) {
	if len(group) == 0 {
		return
	}

	if len(group) == 1 {
		doc := group[0]
		text := fullTexts[doc.Index]
		if text == "" {
			text = doc.Content.Text
		}
		fields, usage, err := uc.extractor.ExtractSingle(ctx, doc, text)
		result.Metadata.APICallsMade++
		addUsage(&result.Metadata, usage)
		if err != nil {
			uc.logger.Warn("intelligence_extraction_failed", "document_index", doc.Index, "error", err)
			return
		}
		result.Intelligence[doc.Index] = fields
		return
	}

	fields, usage, err := uc.extractor.ExtractBatch(ctx, group, fullTexts)
	result.Metadata.APICallsMade++
	addUsage(&result.Metadata, usage)
	if err != nil {
		uc.logger.Warn("intelligence_extraction_failed", "documents", len(group), "error", err)
		return
	}
	for index, list := range fields {
		result.Intelligence[index] = list
	}
}

func addUsage(meta *domain.PipelineMetadata, usage ports.OracleUsage) {
	meta.TotalInputTokens += usage.InputTokens
	meta.TotalOutputTokens += usage.OutputTokens
	meta.CacheReadTokens += usage.CacheReadTokens
	meta.CacheCreationTokens += usage.CacheCreationTokens
	meta.TotalLatencyMs += usage.LatencyMs
}

func referenceNames(refs []domain.ReferenceDocument) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.FileType)
	}
	return names
}
