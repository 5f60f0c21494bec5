package domain

// PlacementResult is the deterministic filing decision for one classified
// document. WasOverridden is true whenever FolderKey differs from the
// classifier's raw suggestion.
type PlacementResult struct {
	FolderKey     string      `json:"folder_key"`
	FolderName    string      `json:"folder_name"`
	TargetLevel   TargetLevel `json:"target_level"`
	WasOverridden bool        `json:"was_overridden"`
	Reason        string      `json:"reason"`
}
