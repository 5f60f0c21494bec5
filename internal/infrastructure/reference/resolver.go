package reference

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
)

const (
	defaultTTL  = 5 * time.Minute
	defaultTopK = 12
)

// scoring weights for batch relevance.
const (
	scoreExactTypeHint   = 10
	scoreCategoryInTags  = 5
	scorePerTagOverlap   = 3
	scorePerKeywordMatch = 1
)

type snapshot struct {
	references []domain.ReferenceDocument
	cachedAt   time.Time
	ttl        time.Duration
}

func (s *snapshot) expired(now time.Time) bool {
	return now.Sub(s.cachedAt) > s.ttl
}

// Resolver maintains the merged reference corpus behind a TTL-bound snapshot
// cache and scores references against a batch's aggregated hints. The snapshot
// is replaced wholesale under one atomic store, so concurrent pipeline runs
// never observe a torn corpus and no lock is needed on the read path.
type Resolver struct {
	source ports.UserReferenceSource
	ttl    time.Duration
	topK   int
	now    func() time.Time

	cache atomic.Pointer[snapshot]
}

type Options struct {
	TTL  time.Duration
	TopK int
	Now  func() time.Time
}

func NewResolver(source ports.UserReferenceSource, opts Options) *Resolver {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		source: source,
		ttl:    ttl,
		topK:   topK,
		now:    now,
	}
}

// Invalidate drops the cached corpus; the next Resolve reloads.
func (r *Resolver) Invalidate() {
	r.cache.Store(nil)
}

// Resolve returns the top-K references relevant to the batch. If nothing
// scores above zero it falls back to one reference per distinct category so
// the classifier is never given zero context.
func (r *Resolver) Resolve(ctx context.Context, docs []domain.BatchDocument) (domain.ReferenceSelection, error) {
	corpus, hit, err := r.load(ctx)
	if err != nil {
		return domain.ReferenceSelection{}, err
	}

	signal := aggregateSignal(docs)
	scored := make([]scoredReference, 0, len(corpus))
	for _, ref := range corpus {
		scored = append(scored, scoredReference{ref: ref, score: scoreReference(ref, signal)})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	var selected []domain.ReferenceDocument
	if len(scored) > 0 && scored[0].score == 0 {
		selected = onePerCategory(corpus)
	} else {
		limit := r.topK
		if limit > len(scored) {
			limit = len(scored)
		}
		for _, s := range scored[:limit] {
			selected = append(selected, s.ref)
		}
	}

	slog.Debug("references_resolved",
		"corpus_size", len(corpus),
		"selected", len(selected),
		"cache_hit", hit,
	)
	return domain.ReferenceSelection{References: selected, CacheHit: hit}, nil
}

// load serves the cached snapshot when fresh, otherwise merges system and user
// corpora and swaps in a new snapshot.
func (r *Resolver) load(ctx context.Context) ([]domain.ReferenceDocument, bool, error) {
	if snap := r.cache.Load(); snap != nil && !snap.expired(r.now()) {
		return snap.references, true, nil
	}

	var userRefs []domain.ReferenceDocument
	if r.source != nil {
		refs, err := r.source.ListReferences(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("list user references: %w", err)
		}
		userRefs = refs
	}

	merged := mergeCorpora(SystemReferences(), userRefs)
	r.cache.Store(&snapshot{references: merged, cachedAt: r.now(), ttl: r.ttl})
	return merged, false, nil
}

// mergeCorpora merges user references over system ones keyed by
// case-insensitive file type: tag and keyword sets are unioned, user content
// fields take precedence, and the result is filtered to active entries.
func mergeCorpora(system, user []domain.ReferenceDocument) []domain.ReferenceDocument {
	index := make(map[string]int, len(system))
	merged := make([]domain.ReferenceDocument, len(system))
	copy(merged, system)
	for i, ref := range merged {
		index[strings.ToLower(ref.FileType)] = i
	}

	for _, u := range user {
		key := strings.ToLower(u.FileType)
		i, exists := index[key]
		if !exists {
			index[key] = len(merged)
			merged = append(merged, u)
			continue
		}
		base := merged[i]
		base.Tags = unionStrings(base.Tags, u.Tags)
		base.Keywords = unionStrings(base.Keywords, u.Keywords)
		if u.Content != "" {
			base.Content = u.Content
		}
		if u.Category != "" {
			base.Category = u.Category
		}
		base.Source = domain.ReferenceUser
		base.IsActive = u.IsActive
		base.UpdatedAt = u.UpdatedAt
		merged[i] = base
	}

	active := merged[:0]
	for _, ref := range merged {
		if ref.IsActive {
			active = append(active, ref)
		}
	}
	return active
}

type scoredReference struct {
	ref   domain.ReferenceDocument
	score int
}

// batchSignal is the aggregated relevance signal for one batch.
type batchSignal struct {
	typeHints map[string]bool
	tags      map[string]bool
}

func aggregateSignal(docs []domain.BatchDocument) batchSignal {
	signal := batchSignal{
		typeHints: map[string]bool{},
		tags:      map[string]bool{},
	}
	for _, doc := range docs {
		if doc.Hints.FilenameTypeHint != "" {
			signal.typeHints[strings.ToLower(doc.Hints.FilenameTypeHint)] = true
		}
		for _, tag := range doc.Hints.MatchedTags {
			signal.tags[strings.ToLower(tag)] = true
		}
		if doc.Hints.IsFinancial {
			signal.tags["financial"] = true
		}
		if doc.Hints.IsLegal {
			signal.tags["legal"] = true
		}
		if doc.Hints.IsIdentity {
			signal.tags["identity"] = true
		}
		if doc.Hints.IsSpreadsheet {
			signal.tags["spreadsheet"] = true
		}
		if doc.Hints.IsImage {
			signal.tags["image"] = true
		}
	}
	return signal
}

func scoreReference(ref domain.ReferenceDocument, signal batchSignal) int {
	score := 0
	if signal.typeHints[strings.ToLower(ref.FileType)] {
		score += scoreExactTypeHint
	}
	if signal.tags[strings.ToLower(ref.Category)] {
		score += scoreCategoryInTags
	}
	for _, tag := range ref.Tags {
		if signal.tags[strings.ToLower(tag)] {
			score += scorePerTagOverlap
		}
	}
	for _, keyword := range ref.Keywords {
		if signal.tags[strings.ToLower(keyword)] {
			score += scorePerKeywordMatch
		}
	}
	return score
}

func onePerCategory(corpus []domain.ReferenceDocument) []domain.ReferenceDocument {
	seen := map[string]bool{}
	var out []domain.ReferenceDocument
	for _, ref := range corpus {
		key := strings.ToLower(ref.Category)
		if !seen[key] {
			seen[key] = true
			out = append(out, ref)
		}
	}
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		key := strings.ToLower(s)
		if !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}
