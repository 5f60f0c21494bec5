package domain

type TargetLevel string

const (
	LevelClient  TargetLevel = "client"
	LevelProject TargetLevel = "project"
)

// ClassificationDetails is the oracle's (or mock's) verdict for one document.
type ClassificationDetails struct {
	FileType         string   `json:"file_type"`
	Category         string   `json:"category"`
	SuggestedFolder  string   `json:"suggested_folder"`
	TargetLevel      string   `json:"target_level"`
	Confidence       float64  `json:"confidence"`
	Reasoning        string   `json:"reasoning"`
	AlternativeTypes []string `json:"alternative_types,omitempty"`
}

type DocumentSummary struct {
	ExecutiveSummary string   `json:"executive_summary"`
	DocumentPurpose  string   `json:"document_purpose"`
	KeyEntities      string   `json:"key_entities"`
	KeyTerms         []string `json:"key_terms,omitempty"`
	KeyDates         []string `json:"key_dates,omitempty"`
	KeyAmounts       []string `json:"key_amounts,omitempty"`
}

type ChecklistMatch struct {
	ItemID     string  `json:"item_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// DocumentClassification is the per-document output of the classification
// stage, matched back to the input by DocumentIndex, never by array position.
type DocumentClassification struct {
	DocumentIndex      int                   `json:"document_index"`
	FileName           string                `json:"file_name"`
	Classification     ClassificationDetails `json:"classification"`
	Summary            DocumentSummary       `json:"summary"`
	ChecklistMatches   []ChecklistMatch      `json:"checklist_matches,omitempty"`
	IntelligenceFields []IntelligenceField   `json:"intelligence_fields,omitempty"`
}

// ClampConfidence forces all confidence values into [0,1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
