package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/ekesta/portfolio/internal/common"
)

type Post struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	// Content is stored in Markdown format. It is left empty in list results.
	Content     string    `json:"content,omitempty"`
	ContentHTML string    `json:"content_html,omitempty"`
	Excerpt     string    `json:"excerpt"`
	Tags        []string  `json:"tags"`
	Published   bool      `json:"published"`
	Featured    bool      `json:"featured"`
	Views       int64     `json:"views"`
	ReadTime    int       `json:"read_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type ListFilter struct {
	Page      int
	Limit     int
	Tag       string
	Search    string
	Published *bool
}

func (f ListFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

// SlugLookup finds a post holding slug other than the one identified by
// excludeID. It returns common.ErrRecordNotFound when the slug is free.
type SlugLookup interface {
	FindBySlug(ctx context.Context, slug string, excludeID int64) (*Post, error)
}

// postStore is the persistence contract of the blog service. withTx hands fn a
// store bound to a single transaction.
type postStore interface {
	SlugLookup
	insert(ctx context.Context, post *Post) error
	update(ctx context.Context, post *Post) error
	getForUpdate(ctx context.Context, slug string) (*Post, error)
	incrementViews(ctx context.Context, slug string) (*Post, error)
	delete(ctx context.Context, slug string) error
	list(ctx context.Context, f ListFilter) ([]Post, int, error)
	featured(ctx context.Context, limit int) ([]Post, error)
	tags(ctx context.Context) ([]TagCount, error)
	withTx(ctx context.Context, fn func(postStore) error) error
}

type PostModel struct {
	db *sql.DB
	q  common.Querier
}

type BlogService struct {
	store postStore
	cache *common.Cache
	now   func() time.Time
}
