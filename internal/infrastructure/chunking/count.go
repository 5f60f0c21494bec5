package chunking

import "github.com/dealdesk/dealdocs/internal/core/domain"

const defaultCountPerChunk = 5

// CountChunker groups documents purely by count. Used for the intelligence
// pass, where per-document text is truncated inside the call itself.
type CountChunker struct {
	Size int
}

func NewCountChunker(size int) *CountChunker {
	if size <= 0 {
		size = defaultCountPerChunk
	}
	return &CountChunker{Size: size}
}

func (c *CountChunker) Chunk(docs []domain.BatchDocument) [][]domain.BatchDocument {
	if len(docs) == 0 {
		return nil
	}
	chunks := make([][]domain.BatchDocument, 0, (len(docs)+c.Size-1)/c.Size)
	for start := 0; start < len(docs); start += c.Size {
		end := start + c.Size
		if end > len(docs) {
			end = len(docs)
		}
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}
