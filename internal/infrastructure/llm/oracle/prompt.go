package oracle

import (
	"fmt"
	"strings"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

const maxCorrectionExamples = 5

// buildSystemBlocks returns two blocks: the skill instructions, which repeat
// across calls and are marked cacheable, and the per-batch folder list plus
// reference text, which changes every batch and is never cached.
func buildSystemBlocks(chunk ports.ClassificationChunk) []systemBlock {
	return []systemBlock{
		{
			Type:         "text",
			Text:         chunk.Skill.Instructions,
			CacheControl: &cacheControl{Type: "ephemeral"},
		},
		{
			Type: "text",
			Text: buildDynamicContext(chunk),
		},
	}
}

func buildDynamicContext(chunk ports.ClassificationChunk) string {
	var b strings.Builder

	b.WriteString("Available folders:\n")
	for _, folder := range chunk.Folders {
		fmt.Fprintf(&b, "- %s (%q, %s level)\n", folder.Key, folder.Name, folder.Level)
	}

	if len(chunk.References) > 0 {
		b.WriteString("\nReference material for known document types:\n")
		for _, ref := range chunk.References {
			fmt.Fprintf(&b, "\n### %s (category: %s)\n%s\n", ref.FileType, ref.Category, ref.Content)
			if len(ref.Tags) > 0 {
				fmt.Fprintf(&b, "Tags: %s\n", strings.Join(ref.Tags, ", "))
			}
		}
	}

	if chunk.Instructions != "" {
		b.WriteString("\nAdditional operator instructions:\n")
		b.WriteString(chunk.Instructions)
		b.WriteString("\n")
	}
	return b.String()
}

// buildUserBlocks assembles the user message: context header, one block group
// per document, then the output-format instruction.
func buildUserBlocks(chunk ports.ClassificationChunk) []contentBlock {
	blocks := []contentBlock{{Type: "text", Text: buildContextHeader(chunk)}}

	for _, doc := range chunk.Documents {
		blocks = append(blocks, documentBlocks(doc)...)
	}

	blocks = append(blocks, contentBlock{Type: "text", Text: outputInstruction(len(chunk.Documents))})
	return blocks
}

func buildContextHeader(chunk ports.ClassificationChunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classify the following batch of %d document(s).\n", len(chunk.Documents))
	fmt.Fprintf(&b, "Client: %s (type: %s)\n", chunk.Client.ClientName, chunk.Client.ClientType)

	if len(chunk.Checklist) > 0 {
		b.WriteString("\nOutstanding checklist items:\n")
		for _, item := range chunk.Checklist {
			fmt.Fprintf(&b, "- [%s] %s\n", item.ID, item.Label)
		}
	}

	if len(chunk.Corrections) > 0 {
		b.WriteString("\nRecent corrections by this client's team (follow their conventions):\n")
		corrections := chunk.Corrections
		if len(corrections) > maxCorrectionExamples {
			corrections = corrections[len(corrections)-maxCorrectionExamples:]
		}
		for _, c := range corrections {
			fmt.Fprintf(&b, "- %q was predicted %q, corrected to %q\n", c.FileName, c.PredictedType, c.CorrectedType)
		}
	}
	return b.String()
}

func documentBlocks(doc domain.BatchDocument) []contentBlock {
	header := fmt.Sprintf("--- Document %d ---\nFilename: %s\nSize: %d bytes\n", doc.Index, doc.FileName, doc.FileSize)
	if doc.Hints.FilenameTypeHint != "" {
		header += fmt.Sprintf("Filename hint: %s (category %s)\n", doc.Hints.FilenameTypeHint, doc.Hints.FilenameCategoryHint)
	}
	if len(doc.Hints.MatchedTags) > 0 {
		header += fmt.Sprintf("Heuristic tags: %s\n", strings.Join(doc.Hints.MatchedTags, ", "))
	}

	blocks := []contentBlock{{Type: "text", Text: header}}

	switch doc.Content.Kind {
	case domain.ContentImage:
		blocks = append(blocks, contentBlock{
			Type: "image",
			Source: &blockSource{
				Type:      "base64",
				MediaType: doc.Content.MediaType,
				Data:      doc.Content.Base64Data,
			},
		})
	case domain.ContentPDFPages:
		if doc.Content.Base64Data != "" {
			blocks = append(blocks, contentBlock{
				Type: "document",
				Source: &blockSource{
					Type:      "base64",
					MediaType: "application/pdf",
					Data:      doc.Content.Base64Data,
				},
			})
		} else {
			blocks = append(blocks, contentBlock{Type: "text", Text: doc.Content.Text})
		}
	default:
		blocks = append(blocks, contentBlock{Type: "text", Text: doc.Content.Text})
	}
	return blocks
}

func outputInstruction(count int) string {
	return fmt.Sprintf(`Respond with a JSON array of exactly %d objects, ordered identically to the input documents, no markdown fences and no prose. Each object:
{
  "document_index": <int, the document number from its header>,
  "file_type": <string>,
  "category": <string>,
  "suggested_folder": <folder key string>,
  "target_level": "client" | "project",
  "confidence": <number 0..1>,
  "reasoning": <string>,
  "alternative_types": [<string>, ...],
  "summary": {
    "executive_summary": <string>,
    "document_purpose": <string>,
    "key_entities": <string>,
    "key_terms": [<string>, ...],
    "key_dates": [<string>, ...],
    "key_amounts": [<string>, ...]
  },
  "checklist_matches": [{"item_id": <string>, "label": <string>, "confidence": <number>}, ...]
}`, count)
}
