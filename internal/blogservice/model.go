package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ekesta/portfolio/internal/common"
	"github.com/lib/pq"
)

const postColumns = `id, title, slug, content, excerpt, tags, published, featured, views, read_time, created_at, updated_at`

// summaryColumns leave out content, which list endpoints never return.
const summaryColumns = `id, title, slug, excerpt, tags, published, featured, views, read_time, created_at, updated_at`

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db, q: db}
}

func (m *PostModel) withTx(ctx context.Context, fn func(postStore) error) error {
	return common.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		return fn(&PostModel{db: m.db, q: tx})
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, pq.Array(&p.Tags), &p.Published, &p.Featured, &p.Views, &p.ReadTime, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	return &p, nil
}

func scanSummary(row rowScanner) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, pq.Array(&p.Tags), &p.Published, &p.Featured, &p.Views, &p.ReadTime, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	return &p, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrRecordNotFound
	}

	return err
}

func slugConflict(err error) error {
	if common.UniqueViolation(err, "posts_slug_key") {
		return errSlugConflict
	}

	return err
}

func (m *PostModel) FindBySlug(ctx context.Context, slug string, excludeID int64) (*Post, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM posts
		WHERE slug = $1 AND id <> $2`

	post, err := scanSummary(m.q.QueryRowContext(ctx, query, slug, excludeID))
	if err != nil {
		return nil, notFound(err)
	}

	return post, nil
}

func (m *PostModel) insert(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (title, slug, content, excerpt, tags, published, featured, read_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, views, created_at, updated_at`

	args := []any{post.Title, post.Slug, post.Content, post.Excerpt, pq.Array(post.Tags), post.Published, post.Featured, post.ReadTime, post.UpdatedAt}

	err := m.q.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.Views, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return slugConflict(err)
	}

	return nil
}

func (m *PostModel) update(ctx context.Context, post *Post) error {
	query := `
		UPDATE posts
		SET title = $1, slug = $2, content = $3, excerpt = $4, tags = $5, published = $6, featured = $7, read_time = $8, updated_at = $9
		WHERE id = $10
		RETURNING views, created_at, updated_at`

	args := []any{post.Title, post.Slug, post.Content, post.Excerpt, pq.Array(post.Tags), post.Published, post.Featured, post.ReadTime, post.UpdatedAt, post.ID}

	err := m.q.QueryRowContext(ctx, query, args...).Scan(&post.Views, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return slugConflict(notFound(err))
	}

	return nil
}

// getForUpdate locks the row until the surrounding transaction ends.
func (m *PostModel) getForUpdate(ctx context.Context, slug string) (*Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE slug = $1
		FOR UPDATE`

	post, err := scanPost(m.q.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, notFound(err)
	}

	return post, nil
}

// incrementViews bumps the view counter and returns the post in one statement.
func (m *PostModel) incrementViews(ctx context.Context, slug string) (*Post, error) {
	query := `
		UPDATE posts
		SET views = views + 1
		WHERE slug = $1
		RETURNING ` + postColumns

	post, err := scanPost(m.q.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, notFound(err)
	}

	return post, nil
}

func (m *PostModel) delete(ctx context.Context, slug string) error {
	query := `
		DELETE FROM posts
		WHERE slug = $1`

	res, err := m.q.ExecContext(ctx, query, slug)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	switch {
	case rows == 0:
		return common.ErrRecordNotFound
	case rows != 1:
		return fmt.Errorf("expected 1 row to be affected, got %d", rows)
	}

	return nil
}

func (m *PostModel) list(ctx context.Context, f ListFilter) ([]Post, int, error) {
	var (
		conds []string
		args  []any
	)

	if f.Tag != "" {
		args = append(args, f.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d OR excerpt ILIKE $%d)", n, n, n))
	}
	if f.Published != nil {
		args = append(args, *f.Published)
		conds = append(conds, fmt.Sprintf("published = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM posts ` + where
	if err := m.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.offset())
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, summaryColumns, where, len(args)-1, len(args))

	posts, err := m.querySummaries(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (m *PostModel) featured(ctx context.Context, limit int) ([]Post, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM posts
		WHERE published AND featured
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	return m.querySummaries(ctx, query, limit)
}

func (m *PostModel) tags(ctx context.Context) ([]TagCount, error) {
	query := `
		SELECT tag, COUNT(*) AS count
		FROM posts, unnest(tags) AS tag
		WHERE published
		GROUP BY tag
		ORDER BY count DESC, tag ASC`

	rows, err := m.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []TagCount{}
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tags, nil
}

func (m *PostModel) querySummaries(ctx context.Context, query string, args ...any) ([]Post, error) {
	rows, err := m.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
