package domain

// SkillMeta is the lightweight header of an instruction set, listable without
// loading the full body.
type SkillMeta struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Skill is a named instruction set consumed by classification and extraction
// prompts.
type Skill struct {
	Meta         SkillMeta `json:"meta"`
	Instructions string    `json:"instructions"`
}
