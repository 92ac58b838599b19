package blogservice

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ekesta/portfolio/internal/common"
)

// memStore is an in-memory postStore. withTx restores the previous state when
// fn fails.
type memStore struct {
	mu     sync.Mutex
	posts  map[int64]Post
	nextID int64
	clock  time.Time

	// findErr is returned by every FindBySlug call when set.
	findErr error
	// conflicts makes the next n writes fail as if another writer took the slug.
	conflicts int
	probes    []string
	txCount   int
}

func newMemStore() *memStore {
	return &memStore{
		posts: make(map[int64]Post),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) withTx(ctx context.Context, fn func(postStore) error) error {
	m.mu.Lock()
	snapshot := maps.Clone(m.posts)
	nextID := m.nextID
	m.txCount++
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.posts = snapshot
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}

	return nil
}

func (m *memStore) FindBySlug(ctx context.Context, slug string, excludeID int64) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.probes = append(m.probes, slug)
	if m.findErr != nil {
		return nil, m.findErr
	}

	for _, p := range m.posts {
		if p.Slug == slug && p.ID != excludeID {
			return clonePost(p), nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (m *memStore) slugTaken(slug string, selfID int64) bool {
	for _, p := range m.posts {
		if p.Slug == slug && p.ID != selfID {
			return true
		}
	}
	return false
}

func (m *memStore) insert(ctx context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conflicts > 0 {
		m.conflicts--
		return errSlugConflict
	}
	if m.slugTaken(post.Slug, 0) {
		return errSlugConflict
	}

	m.nextID++
	m.clock = m.clock.Add(time.Minute)

	post.ID = m.nextID
	post.CreatedAt = m.clock
	m.posts[post.ID] = *clonePost(*post)

	return nil
}

func (m *memStore) update(ctx context.Context, post *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.posts[post.ID]
	if !ok {
		return common.ErrRecordNotFound
	}
	if m.conflicts > 0 {
		m.conflicts--
		return errSlugConflict
	}
	if m.slugTaken(post.Slug, post.ID) {
		return errSlugConflict
	}

	post.Views = stored.Views
	post.CreatedAt = stored.CreatedAt
	m.posts[post.ID] = *clonePost(*post)

	return nil
}

func (m *memStore) getForUpdate(ctx context.Context, slug string) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (m *memStore) incrementViews(ctx context.Context, slug string) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.posts {
		if p.Slug == slug {
			p.Views++
			m.posts[id] = p
			return clonePost(p), nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (m *memStore) delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.posts {
		if p.Slug == slug {
			delete(m.posts, id)
			return nil
		}
	}

	return common.ErrRecordNotFound
}

func (m *memStore) sorted(keep func(Post) bool) []Post {
	var out []Post
	for _, p := range m.posts {
		if keep(p) {
			summary := *clonePost(p)
			summary.Content = ""
			out = append(out, summary)
		}
	}

	slices.SortFunc(out, func(a, b Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})

	return out
}

func (m *memStore) list(ctx context.Context, f ListFilter) ([]Post, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.sorted(func(p Post) bool {
		if f.Tag != "" && !slices.Contains(p.Tags, f.Tag) {
			return false
		}
		if f.Published != nil && p.Published != *f.Published {
			return false
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			hay := strings.ToLower(p.Title + "\n" + p.Content + "\n" + p.Excerpt)
			if !strings.Contains(hay, needle) {
				return false
			}
		}
		return true
	})

	total := len(matched)
	start := min(f.offset(), total)
	end := min(start+f.Limit, total)

	return append([]Post{}, matched[start:end]...), total, nil
}

func (m *memStore) featured(ctx context.Context, limit int) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := m.sorted(func(p Post) bool { return p.Published && p.Featured })
	if len(posts) > limit {
		posts = posts[:limit]
	}

	return append([]Post{}, posts...), nil
}

func (m *memStore) tags(ctx context.Context) ([]TagCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[string]int)
	for _, p := range m.posts {
		if !p.Published {
			continue
		}
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}

	out := []TagCount{}
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Tag, b.Tag)
	})

	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}

func clonePost(p Post) *Post {
	p.Tags = slices.Clone(p.Tags)
	return &p
}
