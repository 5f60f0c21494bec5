package ports

import (
	"context"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

// Preprocessor normalizes a raw file into a batch document. It never fails:
// unreadable content is substituted with a placeholder.
type Preprocessor interface {
	Preprocess(ctx context.Context, index int, file domain.InputFile) domain.BatchDocument
}

// ReferenceResolver selects the reference material relevant to a batch.
type ReferenceResolver interface {
	Resolve(ctx context.Context, docs []domain.BatchDocument) (domain.ReferenceSelection, error)
	Invalidate()
}

// UserReferenceSource lists the user-defined reference corpus. The system
// corpus is builtin.
type UserReferenceSource interface {
	ListReferences(ctx context.Context) ([]domain.ReferenceDocument, error)
}

// SkillLoader loads named instruction sets with cached bodies.
type SkillLoader interface {
	Load(ctx context.Context, name string) (domain.Skill, error)
	ListMetas(ctx context.Context) ([]domain.SkillMeta, error)
}

// Chunker groups preprocessed documents into classification units.
type Chunker interface {
	Chunk(docs []domain.BatchDocument) [][]domain.BatchDocument
}

// ClassificationChunk is the unit of one oracle call and of failure isolation.
type ClassificationChunk struct {
	Documents    []domain.BatchDocument
	References   []domain.ReferenceDocument
	Skill        domain.Skill
	Client       domain.ClientContext
	Folders      []domain.FolderOption
	Checklist    []domain.ChecklistItem
	Corrections  []domain.Correction
	Instructions string
}

// OracleUsage carries per-call token accounting.
type OracleUsage struct {
	InputTokens         int
	OutputTokens        int
	CacheReadTokens     int
	CacheCreationTokens int
	LatencyMs           int64
}

// ChunkResult is the parsed output of one classification call.
type ChunkResult struct {
	Documents []domain.DocumentClassification
	Usage     OracleUsage
}

// ChunkClassifier classifies one token-budgeted chunk of documents. Live and
// mock implementations share this contract; the orchestrator stays agnostic.
type ChunkClassifier interface {
	ClassifyChunk(ctx context.Context, chunk ClassificationChunk) (*ChunkResult, error)
	Model() string
}

// IntelligenceExtractor runs the second-pass structured field extraction.
type IntelligenceExtractor interface {
	ExtractSingle(ctx context.Context, doc domain.BatchDocument, fullText string) ([]domain.IntelligenceField, OracleUsage, error)
	ExtractBatch(ctx context.Context, docs []domain.BatchDocument, fullTexts map[int]string) (map[int][]domain.IntelligenceField, OracleUsage, error)
}

// PlacementResolver finalizes the filing decision for a classified document.
type PlacementResolver interface {
	Resolve(cls domain.ClassificationDetails, client domain.ClientContext) domain.PlacementResult
}

// AnalysisStore is the persistent record store's write contract.
type AnalysisStore interface {
	UpdateAnalysis(ctx context.Context, batchID string, update domain.AnalysisUpdate) error
	CreateKnowledgeEntry(ctx context.Context, batchID string, entry domain.KnowledgeEntry) error
}

// MessageQueue delivers batch jobs to workers.
type MessageQueue interface {
	PublishBatchSubmitted(ctx context.Context, batchID string) error
	SubscribeBatchSubmitted(ctx context.Context, handler func(context.Context, string) error) error
}

// BatchRequestStore persists inbound batch requests between api and worker.
type BatchRequestStore interface {
	SaveRequest(ctx context.Context, req domain.BatchRequest) error
	LoadRequest(ctx context.Context, batchID string) (domain.BatchRequest, error)
}
