package domain

// IntelligenceField is one structured fact extracted from document text.
// FieldPath is dot-namespaced, e.g. "financials.loanAmount".
type IntelligenceField struct {
	FieldPath    string   `json:"field_path"`
	Label        string   `json:"label"`
	Value        string   `json:"value"`
	ValueType    string   `json:"value_type"`
	Confidence   float64  `json:"confidence"`
	SourceText   string   `json:"source_text,omitempty"`
	TemplateTags []string `json:"template_tags"`
	Category     string   `json:"category"`
	IsCanonical  bool     `json:"is_canonical"`
	Scope        string   `json:"scope,omitempty"`
}
