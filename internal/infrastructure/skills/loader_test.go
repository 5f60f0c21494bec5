package skills

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

func skillFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestLoadParsesFrontmatterAndBody(t *testing.T) {
	loader := NewLoader(skillFS(map[string]string{
		"classify.md": "---\nname: classify\ndescription: classifies documents\n---\n\nDo the classification.\n",
	}))

	skill, err := loader.Load(context.Background(), "classify")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if skill.Meta.Name != "classify" {
		t.Fatalf("name = %q", skill.Meta.Name)
	}
	if skill.Meta.Description != "classifies documents" {
		t.Fatalf("description = %q", skill.Meta.Description)
	}
	if skill.Instructions != "Do the classification." {
		t.Fatalf("instructions = %q", skill.Instructions)
	}
}

func TestLoadMissingNameIsConfigurationError(t *testing.T) {
	loader := NewLoader(skillFS(map[string]string{
		"broken.md": "---\ndescription: no name\n---\nbody\n",
	}))

	_, err := loader.Load(context.Background(), "broken")
	if err == nil {
		t.Fatal("expected error for missing name")
	}
	if !domain.IsKind(err, domain.ErrSkillInvalid) {
		t.Fatalf("expected ErrSkillInvalid, got %v", err)
	}
}

func TestLoadMissingDescriptionIsConfigurationError(t *testing.T) {
	loader := NewLoader(skillFS(map[string]string{
		"broken.md": "---\nname: broken\n---\nbody\n",
	}))

	_, err := loader.Load(context.Background(), "broken")
	if !domain.IsKind(err, domain.ErrSkillInvalid) {
		t.Fatalf("expected ErrSkillInvalid, got %v", err)
	}
}

func TestLoadMissingFrontmatterIsConfigurationError(t *testing.T) {
	loader := NewLoader(skillFS(map[string]string{
		"plain.md": "just instructions, no header\n",
	}))

	_, err := loader.Load(context.Background(), "plain")
	if !domain.IsKind(err, domain.ErrSkillInvalid) {
		t.Fatalf("expected ErrSkillInvalid, got %v", err)
	}
}

func TestLoadUnknownSkill(t *testing.T) {
	loader := NewLoader(skillFS(nil))
	_, err := loader.Load(context.Background(), "ghost")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadCachesByName(t *testing.T) {
	fsys := skillFS(map[string]string{
		"classify.md": "---\nname: classify\ndescription: v1\n---\nbody\n",
	})
	loader := NewLoader(fsys)

	if _, err := loader.Load(context.Background(), "classify"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Mutate the backing file; the cached skill must win.
	fsys["classify.md"] = &fstest.MapFile{Data: []byte("---\nname: classify\ndescription: v2\n---\nbody\n")}

	skill, err := loader.Load(context.Background(), "classify")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if skill.Meta.Description != "v1" {
		t.Fatalf("cache miss: description = %q, want v1", skill.Meta.Description)
	}
}

func TestListMetas(t *testing.T) {
	loader := NewLoader(skillFS(map[string]string{
		"a.md": "---\nname: a\ndescription: first\n---\nbody a\n",
		"b.md": "---\nname: b\ndescription: second\n---\nbody b\n",
	}))

	metas, err := loader.ListMetas(context.Background())
	if err != nil {
		t.Fatalf("ListMetas() error = %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("metas = %d, want 2", len(metas))
	}
}

func TestListMetasDecodesHeaderOnly(t *testing.T) {
	// The body is deliberately not valid YAML; listing must not choke on it.
	loader := NewLoader(skillFS(map[string]string{
		"gnarly.md": "---\nname: gnarly\ndescription: header wins\n---\n\t- [unbalanced: {{braces\n\"and: stray: colons\n",
	}))

	metas, err := loader.ListMetas(context.Background())
	if err != nil {
		t.Fatalf("ListMetas() error = %v", err)
	}
	if len(metas) != 1 || metas[0].Name != "gnarly" || metas[0].Description != "header wins" {
		t.Fatalf("metas = %+v", metas)
	}
}

func TestListMetasSurfacesBrokenFrontmatter(t *testing.T) {
	loader := NewLoader(skillFS(map[string]string{
		"broken.md": "---\ndescription: missing name\n---\nbody\n",
	}))

	_, err := loader.ListMetas(context.Background())
	if !domain.IsKind(err, domain.ErrSkillInvalid) {
		t.Fatalf("expected ErrSkillInvalid, got %v", err)
	}
}

func TestDefaultLoaderShipsRequiredSkills(t *testing.T) {
	loader := NewDefaultLoader()

	for _, name := range []string{"batch-classification", "intelligence-extraction"} {
		skill, err := loader.Load(context.Background(), name)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", name, err)
		}
		if skill.Instructions == "" {
			t.Fatalf("skill %q has empty instructions", name)
		}
	}
}
