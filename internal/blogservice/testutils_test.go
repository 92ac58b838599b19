package blogservice

import (
	"strings"
	"testing"
	"time"

	"github.com/ekesta/portfolio/internal/common"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func setupTestService(t *testing.T) (*BlogService, *memStore) {
	t.Helper()

	store := newMemStore()
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	t.Cleanup(cache.Flush)

	s := newBlogService(store, cache)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	return s, store
}

func newPostRequest(title string) *CreatePostRequest {
	return &CreatePostRequest{
		Title:   title,
		Content: "Some **markdown** content.",
		Excerpt: "A short excerpt.",
	}
}

func updateRequestFrom(p *Post) *UpdatePostRequest {
	return &UpdatePostRequest{
		Title:   p.Title,
		Content: p.Content,
		Excerpt: p.Excerpt,
		Tags:    p.Tags,
	}
}

func boolPtr(b bool) *bool {
	return &b
}
