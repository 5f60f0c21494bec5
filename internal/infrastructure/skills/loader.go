package skills

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

//go:embed defaults/*.md
var defaultSkills embed.FS

const frontmatterDelimiter = "---"

// Loader reads named instruction sets from a filesystem. Each skill is a
// markdown file with a YAML frontmatter header carrying name and description;
// both fields are mandatory and their absence is an operator misconfiguration,
// not a per-document condition. Loaded skills are cached by name.
type Loader struct {
	fsys fs.FS

	mu    sync.RWMutex
	cache map[string]domain.Skill
}

// NewLoader serves skills from the given filesystem rooted at dir.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, cache: make(map[string]domain.Skill)}
}

// NewDefaultLoader serves the skills embedded in the binary.
func NewDefaultLoader() *Loader {
	sub, err := fs.Sub(defaultSkills, "defaults")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return NewLoader(sub)
}

// Load returns the full skill for name, reading <name>.md on first use.
func (l *Loader) Load(_ context.Context, name string) (domain.Skill, error) {
	l.mu.RLock()
	cached, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	raw, err := fs.ReadFile(l.fsys, name+".md")
	if err != nil {
		return domain.Skill{}, domain.WrapError(domain.ErrNotFound, "load skill", fmt.Errorf("skill %q: %w", name, err))
	}

	skill, err := parseSkill(name, raw)
	if err != nil {
		return domain.Skill{}, err
	}

	l.mu.Lock()
	l.cache[name] = skill
	l.mu.Unlock()
	return skill, nil
}

// ListMetas returns lightweight metadata for every available skill. Only the
// frontmatter header is decoded; bodies stay untouched until Load.
func (l *Loader) ListMetas(_ context.Context) ([]domain.SkillMeta, error) {
	entries, err := fs.Glob(l.fsys, "*.md")
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	metas := make([]domain.SkillMeta, 0, len(entries))
	for _, entry := range entries {
		raw, err := fs.ReadFile(l.fsys, entry)
		if err != nil {
			return nil, fmt.Errorf("read skill %q: %w", entry, err)
		}
		name := strings.TrimSuffix(entry, ".md")
		header, _, err := splitFrontmatter(string(raw))
		if err != nil {
			return nil, domain.WrapError(domain.ErrSkillInvalid, "parse skill", fmt.Errorf("skill %q: %w", name, err))
		}
		meta, err := parseMeta(name, header)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

func parseSkill(name string, raw []byte) (domain.Skill, error) {
	header, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return domain.Skill{}, domain.WrapError(domain.ErrSkillInvalid, "parse skill", fmt.Errorf("skill %q: %w", name, err))
	}

	meta, err := parseMeta(name, header)
	if err != nil {
		return domain.Skill{}, err
	}

	return domain.Skill{Meta: meta, Instructions: strings.TrimSpace(body)}, nil
}

func parseMeta(name, header string) (domain.SkillMeta, error) {
	var meta domain.SkillMeta
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return domain.SkillMeta{}, domain.WrapError(domain.ErrSkillInvalid, "parse skill", fmt.Errorf("skill %q frontmatter: %w", name, err))
	}
	if strings.TrimSpace(meta.Name) == "" {
		return domain.SkillMeta{}, domain.WrapError(domain.ErrSkillInvalid, "parse skill", fmt.Errorf("skill %q: missing required field name", name))
	}
	if strings.TrimSpace(meta.Description) == "" {
		return domain.SkillMeta{}, domain.WrapError(domain.ErrSkillInvalid, "parse skill", fmt.Errorf("skill %q: missing required field description", name))
	}
	return meta, nil
}

func splitFrontmatter(content string) (header, body string, err error) {
	trimmed := strings.TrimLeft(content, "\n\r ")
	if !strings.HasPrefix(trimmed, frontmatterDelimiter) {
		return "", "", fmt.Errorf("missing frontmatter header")
	}
	rest := strings.TrimPrefix(trimmed, frontmatterDelimiter)
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx < 0 {
		return "", "", fmt.Errorf("unterminated frontmatter header")
	}
	header = rest[:idx]
	body = rest[idx+len("\n"+frontmatterDelimiter):]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return header, body, nil
}
