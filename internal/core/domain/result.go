package domain

// PipelineMetadata aggregates usage across every oracle sub-call of one run.
type PipelineMetadata struct {
	Model               string   `json:"model"`
	BatchSize           int      `json:"batch_size"`
	APICallsMade        int      `json:"api_calls_made"`
	TotalInputTokens    int      `json:"total_input_tokens"`
	TotalOutputTokens   int      `json:"total_output_tokens"`
	CacheReadTokens     int      `json:"cache_read_tokens"`
	CacheCreationTokens int      `json:"cache_creation_tokens"`
	TotalLatencyMs      int64    `json:"total_latency_ms"`
	ReferencesLoaded    []string `json:"references_loaded"`
	CachedReferenceHit  bool     `json:"cached_reference_hit"`
}

// DocumentError records one failed document; failed chunks produce one entry
// per member document.
type DocumentError struct {
	DocumentIndex int    `json:"document_index"`
	FileName      string `json:"file_name"`
	Error         string `json:"error"`
}

// PipelineResult is the outbound contract of one batch run. Every input index
// appears in exactly one of Documents or Errors.
type PipelineResult struct {
	Success      bool                        `json:"success"`
	Documents    []DocumentClassification    `json:"documents"`
	Placements   map[int]PlacementResult     `json:"placements"`
	Intelligence map[int][]IntelligenceField `json:"intelligence"`
	Metadata     PipelineMetadata            `json:"metadata"`
	Errors       []DocumentError             `json:"errors"`
}

// AnalysisUpdate is the persistent store's per-document write contract.
type AnalysisUpdate struct {
	DocumentIndex         int            `json:"document_index"`
	FileName              string         `json:"file_name"`
	Summary               string         `json:"summary"`
	FileTypeDetected      string         `json:"file_type_detected"`
	Category              string         `json:"category"`
	TargetFolder          string         `json:"target_folder"`
	Confidence            float64        `json:"confidence"`
	GeneratedDocumentCode string         `json:"generated_document_code"`
	ExtractedData         map[string]any `json:"extracted_data,omitempty"`
}

// KnowledgeEntry is the store's batch-level knowledge write.
type KnowledgeEntry struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"key_points,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}
