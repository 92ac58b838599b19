package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ekesta/portfolio/internal/common"
	"github.com/ekesta/portfolio/internal/markdown"
)

const (
	featuredLimit   = 3
	maxSaveAttempts = 3
)

func NewBlogService(db *sql.DB, cache *common.Cache) *BlogService {
	return newBlogService(newPostModel(db), cache)
}

func newBlogService(store postStore, cache *common.Cache) *BlogService {
	return &BlogService{store: store, cache: cache, now: time.Now}
}

type CreatePostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Excerpt   string   `json:"excerpt"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
	Featured  bool     `json:"featured"`
}

// UpdatePostRequest replaces the editable fields of a post. Nil flags keep
// their stored values.
type UpdatePostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Excerpt   string   `json:"excerpt"`
	Tags      []string `json:"tags"`
	Published *bool    `json:"published"`
	Featured  *bool    `json:"featured"`
}

func validatePostFields(title, content, excerpt string, tags []string) error {
	v := common.NewValidator()
	validateTitle(v, title)
	validateContent(v, content)
	validateExcerpt(v, excerpt)
	validateTags(v, tags)
	if !v.Valid() {
		return v.ValidationError()
	}

	return nil
}

// CreatePost stores a new post under the first free slug derived from its title.
func (s *BlogService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	title := strings.TrimSpace(req.Title)
	excerpt := strings.TrimSpace(req.Excerpt)
	tags := normalizeTags(req.Tags)

	if err := validatePostFields(title, req.Content, excerpt, tags); err != nil {
		return nil, err
	}

	var post *Post
	err := s.save(ctx, func(st postStore) error {
		post = &Post{
			Title:     title,
			Content:   sanitizeMarkdown(req.Content),
			Excerpt:   excerpt,
			Tags:      tags,
			Published: req.Published,
			Featured:  req.Featured,
		}

		if err := s.prepare(ctx, st, post, true); err != nil {
			return err
		}

		return st.insert(ctx, post)
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// UpdatePost rewrites the post stored under slug. The slug is only
// recomputed when the title changes or the stored slug is empty.
func (s *BlogService) UpdatePost(ctx context.Context, slug string, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateSlug(v, slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	title := strings.TrimSpace(req.Title)
	excerpt := strings.TrimSpace(req.Excerpt)
	tags := normalizeTags(req.Tags)

	if err := validatePostFields(title, req.Content, excerpt, tags); err != nil {
		return nil, err
	}

	var post *Post
	err := s.save(ctx, func(st postStore) error {
		existing, err := st.getForUpdate(ctx, slug)
		if err != nil {
			return err
		}

		titleChanged := existing.Title != title

		existing.Title = title
		existing.Content = sanitizeMarkdown(req.Content)
		existing.Excerpt = excerpt
		existing.Tags = tags
		if req.Published != nil {
			existing.Published = *req.Published
		}
		if req.Featured != nil {
			existing.Featured = *req.Featured
		}

		if err := s.prepare(ctx, st, existing, titleChanged); err != nil {
			return err
		}

		if err := st.update(ctx, existing); err != nil {
			return err
		}

		post = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// prepare runs the pre-write steps in order: slug resolution, read time, then
// the modification timestamp.
func (s *BlogService) prepare(ctx context.Context, st postStore, post *Post, titleChanged bool) error {
	// An empty stored slug only comes from rows written outside this service;
	// the posts_slug_not_empty check rejects them for anything saved here.
	if post.ID == 0 || titleChanged || post.Slug == "" {
		slug, err := ResolveSlug(ctx, st, post.Title, post.ID)
		if err != nil {
			return err
		}
		post.Slug = slug
	}

	if post.Slug == "" {
		return ErrSlugGeneration
	}

	post.ReadTime = ReadTime(post.Content)
	post.UpdatedAt = s.now().UTC().Truncate(time.Second)

	return nil
}

// save runs fn in a transaction, starting over when a concurrent writer
// claimed the resolved slug first.
func (s *BlogService) save(ctx context.Context, fn func(postStore) error) error {
	for attempt := 1; ; attempt++ {
		err := s.store.withTx(ctx, fn)
		switch {
		case err == nil:
			s.invalidate()
			return nil
		case !errors.Is(err, errSlugConflict):
			return err
		case attempt == maxSaveAttempts:
			return ErrDuplicateSlug
		}
	}
}

// GetPost returns the post stored under slug and counts the read as a view.
func (s *BlogService) GetPost(ctx context.Context, slug string) (*Post, error) {
	v := common.NewValidator()
	validateSlug(v, slug)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post, err := s.store.incrementViews(ctx, slug)
	if err != nil {
		return nil, err
	}

	post.ContentHTML = markdown.ToHTML(post.Content)

	return post, nil
}

func (s *BlogService) DeletePost(ctx context.Context, slug string) error {
	v := common.NewValidator()
	validateSlug(v, slug)
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.store.delete(ctx, slug); err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ListPosts returns one page of posts, newest first, without their content.
func (s *BlogService) ListPosts(ctx context.Context, f ListFilter) ([]Post, *common.Pagination, error) {
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	f.Search = strings.TrimSpace(f.Search)

	v := common.NewValidator()
	validateListFilter(v, f)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	posts, total, err := s.store.list(ctx, f)
	if err != nil {
		return nil, nil, err
	}

	return posts, common.NewPagination(f.Page, f.Limit, total), nil
}

// FeaturedPosts returns up to three published featured posts.
func (s *BlogService) FeaturedPosts(ctx context.Context) ([]Post, error) {
	if cached, ok := s.cache.Get(common.CacheKeyFeaturedPosts()); ok {
		return cached.([]Post), nil
	}

	posts, err := s.store.featured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}

	s.cache.Set(common.CacheKeyFeaturedPosts(), posts)
	return posts, nil
}

// Tags counts tag usage across published posts, most used first.
func (s *BlogService) Tags(ctx context.Context) ([]TagCount, error) {
	if cached, ok := s.cache.Get(common.CacheKeyTags()); ok {
		return cached.([]TagCount), nil
	}

	tags, err := s.store.tags(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(common.CacheKeyTags(), tags)
	return tags, nil
}

func (s *BlogService) invalidate() {
	s.cache.Invalidate(common.CacheKeyFeaturedPosts(), common.CacheKeyTags())
}
