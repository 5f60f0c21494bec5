package placement

import (
	"fmt"
	"strings"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

// Resolver finalizes the filing decision for a classified document. It is
// pure and deterministic, runs unconditionally after classification, and does
// not care whether the live or mock classifier produced the input.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve walks the priority cascade, first match wins:
// client-type override, file-type override, category default, recognized raw
// suggestion, miscellaneous fallback.
func (r *Resolver) Resolve(cls domain.ClassificationDetails, client domain.ClientContext) domain.PlacementResult {
	fileType := strings.ToLower(strings.TrimSpace(cls.FileType))
	category := strings.ToLower(strings.TrimSpace(cls.Category))
	clientType := strings.ToLower(strings.TrimSpace(client.ClientType))
	suggested := strings.ToLower(strings.TrimSpace(cls.SuggestedFolder))

	if key, ok := clientTypeOverrides[clientTypeKey{clientType, fileType}]; ok {
		return buildResult(key, suggested, fmt.Sprintf("client-type override for %s/%s", clientType, cls.FileType))
	}
	if key, ok := fileTypeOverrides[fileType]; ok {
		return buildResult(key, suggested, fmt.Sprintf("file-type override for %s", cls.FileType))
	}
	if key, ok := categoryDefaults[category]; ok {
		return buildResult(key, suggested, fmt.Sprintf("category default for %s", cls.Category))
	}
	if _, ok := folderTable[suggested]; ok && suggested != "" {
		return buildResult(suggested, suggested, "classifier suggestion accepted")
	}
	return buildResult(FallbackFolderKey, suggested, "no rule matched; filed as miscellaneous")
}

func buildResult(key, suggested, reason string) domain.PlacementResult {
	folder := folderTable[key]
	return domain.PlacementResult{
		FolderKey:     folder.Key,
		FolderName:    folder.Name,
		TargetLevel:   folder.Level,
		WasOverridden: suggested != "" && suggested != key,
		Reason:        reason,
	}
}
