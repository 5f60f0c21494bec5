package chunking

import "github.com/dealdesk/dealdocs/internal/core/domain"

const (
	defaultMaxDocsPerChunk = 10
	defaultTokenBudget     = 30000
	defaultSystemOverhead  = 3000

	imageTokenEstimate       = 1200
	spreadsheetTokenOverhead = 500
	binaryTokenFloor         = 1000
)

// BudgetChunker groups documents in input order under both a per-chunk
// document count bound and a token budget.
type BudgetChunker struct {
	MaxDocs        int
	TokenBudget    int
	SystemOverhead int
}

func NewBudgetChunker(maxDocs, tokenBudget, systemOverhead int) *BudgetChunker {
	if maxDocs <= 0 {
		maxDocs = defaultMaxDocsPerChunk
	}
	if tokenBudget <= 0 {
		tokenBudget = defaultTokenBudget
	}
	if systemOverhead <= 0 {
		systemOverhead = defaultSystemOverhead
	}
	return &BudgetChunker{
		MaxDocs:        maxDocs,
		TokenBudget:    tokenBudget,
		SystemOverhead: systemOverhead,
	}
}

// Chunk bin-packs greedily: a document joins the current chunk unless doing so
// would exceed either bound. An oversized single document still receives its
// own chunk rather than being dropped.
func (c *BudgetChunker) Chunk(docs []domain.BatchDocument) [][]domain.BatchDocument {
	if len(docs) == 0 {
		return nil
	}

	var chunks [][]domain.BatchDocument
	var current []domain.BatchDocument
	running := c.SystemOverhead

	for _, doc := range docs {
		cost := EstimateTokens(doc)
		exceedsBudget := len(current) > 0 && running+cost > c.TokenBudget
		exceedsCount := len(current) >= c.MaxDocs
		if exceedsBudget || exceedsCount {
			chunks = append(chunks, current)
			current = nil
			running = c.SystemOverhead
		}
		current = append(current, doc)
		running += cost
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// EstimateTokens approximates the prompt cost of one document by content kind.
func EstimateTokens(doc domain.BatchDocument) int {
	switch doc.Content.Kind {
	case domain.ContentImage:
		return imageTokenEstimate
	case domain.ContentPDFPages:
		if doc.Content.Base64Data != "" {
			return binaryEstimate(len(doc.Content.Base64Data))
		}
		return len(doc.Content.Text) / 4
	case domain.ContentSpreadsheet:
		return len(doc.Content.Text)/4 + spreadsheetTokenOverhead
	default:
		return len(doc.Content.Text) / 4
	}
}

func binaryEstimate(base64Len int) int {
	estimate := int(float64(base64Len) * 0.75 / 6)
	if estimate < binaryTokenFloor {
		return binaryTokenFloor
	}
	return estimate
}
