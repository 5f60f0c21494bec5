package domain

// ContentKind discriminates the processed-content union.
type ContentKind string

const (
	ContentText        ContentKind = "text"
	ContentPDFPages    ContentKind = "pdf_pages"
	ContentImage       ContentKind = "image"
	ContentSpreadsheet ContentKind = "spreadsheet"
)

// ProcessedContent is a tagged union: exactly one payload is meaningful for a
// given Kind. Text carries extracted or truncated text, Base64Data carries an
// embedded binary (image or page-rendered PDF) for native multi-modal handling.
type ProcessedContent struct {
	Kind       ContentKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Base64Data string      `json:"base64_data,omitempty"`
	MediaType  string      `json:"media_type,omitempty"`
	Truncated  bool        `json:"truncated,omitempty"`
}

// DocumentHints are cheap filename/content heuristics computed before any
// oracle call. MatchedTags is deduplicated.
type DocumentHints struct {
	MatchedTags          []string `json:"matched_tags"`
	FilenameTypeHint     string   `json:"filename_type_hint,omitempty"`
	FilenameCategoryHint string   `json:"filename_category_hint,omitempty"`
	IsFinancial          bool     `json:"is_financial"`
	IsLegal              bool     `json:"is_legal"`
	IsIdentity           bool     `json:"is_identity"`
	IsSpreadsheet        bool     `json:"is_spreadsheet"`
	IsImage              bool     `json:"is_image"`
}

// BatchDocument is one normalized input document. Index is its position in the
// inbound request and the stable identity used to match results back to inputs.
type BatchDocument struct {
	Index     int              `json:"index"`
	FileName  string           `json:"file_name"`
	FileSize  int64            `json:"file_size"`
	MediaType string           `json:"media_type"`
	Content   ProcessedContent `json:"content"`
	Hints     DocumentHints    `json:"hints"`
}

// InputFile is a raw uploaded file before preprocessing.
type InputFile struct {
	FileName  string `json:"file_name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	Data      []byte `json:"data,omitempty"`
	// Text is optional pre-extracted text supplied by the caller.
	Text string `json:"text,omitempty"`
}

type ClientContext struct {
	ClientName string `json:"client_name"`
	ClientType string `json:"client_type"`
	// ShortCode prefixes generated document codes, e.g. "ACM".
	ShortCode string `json:"short_code,omitempty"`
}

// FolderOption is one folder the classifier may suggest.
type FolderOption struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// ChecklistItem is an outstanding documentation requirement a document may fulfil.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Correction is a past human override used as few-shot guidance.
type Correction struct {
	FileName      string `json:"file_name"`
	PredictedType string `json:"predicted_type"`
	CorrectedType string `json:"corrected_type"`
}

// BatchRequest is one pipeline invocation.
type BatchRequest struct {
	BatchID          string            `json:"batch_id"`
	Files            []InputFile       `json:"files"`
	FullTexts        map[int]string    `json:"full_texts,omitempty"`
	Client           ClientContext     `json:"client"`
	AvailableFolders []FolderOption    `json:"available_folders"`
	ChecklistItems   []ChecklistItem   `json:"checklist_items,omitempty"`
	Corrections      []Correction      `json:"corrections,omitempty"`
	Instructions     string            `json:"instructions,omitempty"`
	UploaderInitials string            `json:"uploader_initials,omitempty"`
}
