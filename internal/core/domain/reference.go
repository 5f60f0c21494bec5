package domain

import "time"

type ReferenceSource string

const (
	ReferenceSystem ReferenceSource = "system"
	ReferenceUser   ReferenceSource = "user"
)

// ReferenceDocument describes one known document type and is used to ground
// classification prompts.
type ReferenceDocument struct {
	ID        string          `json:"id"`
	FileType  string          `json:"file_type"`
	Category  string          `json:"category"`
	Tags      []string        `json:"tags,omitempty"`
	Keywords  []string        `json:"keywords,omitempty"`
	Content   string          `json:"content"`
	Source    ReferenceSource `json:"source"`
	IsActive  bool            `json:"is_active"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ReferenceSelection is the resolver's answer for one batch.
type ReferenceSelection struct {
	References []ReferenceDocument `json:"references"`
	CacheHit   bool                `json:"cache_hit"`
}
