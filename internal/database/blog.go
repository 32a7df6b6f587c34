package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const blogColumns = `id, slug, title, content, excerpt, author, category, tags, image, published, published_at, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (*BlogPost, error) {
	p := &BlogPost{}
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.Author,
		&p.Category, pq.Array(&p.Tags), &p.Image, &p.Published, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateBlogPost inserts a new post. A published post gets published_at set to
// now. Returns ErrSlugTaken for a duplicate slug.
func (db *DB) CreateBlogPost(ctx context.Context, p *BlogPost) (*BlogPost, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1)`, p.Slug).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if exists {
		return nil, ErrSlugTaken
	}

	id := uuid.NewString()
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	var publishedAt any
	if p.Published {
		publishedAt = time.Now()
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO blog_posts (id, slug, title, content, excerpt, author, category, tags, image, published, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, p.Slug, p.Title, p.Content, p.Excerpt, p.Author, p.Category,
		pq.Array(tags), p.Image, p.Published, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}

	return db.GetBlogPostByID(ctx, id)
}

// GetBlogPostByID retrieves a post by ID.
func (db *DB) GetBlogPostByID(ctx context.Context, id string) (*BlogPost, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id)
	p, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return p, nil
}

// GetBlogPostBySlug retrieves a post by slug.
func (db *DB) GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE slug = $1`, slug)
	p, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return p, nil
}

// GetAllBlogPosts lists posts, most recently published first. When
// publishedOnly is true drafts are excluded.
func (db *DB) GetAllBlogPosts(ctx context.Context, publishedOnly bool) ([]*BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY published_at DESC NULLS LAST, created_at DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get blog posts: %w", err)
	}
	defer rows.Close()

	var posts []*BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog posts: %w", err)
	}

	return posts, nil
}

// BlogPostUpdate holds the optional fields of a partial blog post update.
type BlogPostUpdate struct {
	Slug      *string
	Title     *string
	Content   *string
	Excerpt   *string
	Author    *string
	Category  *string
	Tags      []string
	Image     *string
	Published *bool
}

// UpdateBlogPost applies the non-nil fields. Flipping published to true on a
// post that was never published stamps published_at.
func (db *DB) UpdateBlogPost(ctx context.Context, id string, upd *BlogPostUpdate) (*BlogPost, error) {
	current, err := db.GetBlogPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Slug != nil {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1 AND id <> $2)`,
			*upd.Slug, id).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if exists {
			return nil, ErrSlugTaken
		}
	}

	var publishedAt any
	if upd.Published != nil && *upd.Published && current.PublishedAt == nil {
		publishedAt = time.Now()
	}

	var tags any
	if upd.Tags != nil {
		tags = pq.Array(upd.Tags)
	}

	_, err = db.ExecContext(ctx,
		`UPDATE blog_posts SET
			slug         = COALESCE($2, slug),
			title        = COALESCE($3, title),
			content      = COALESCE($4, content),
			excerpt      = COALESCE($5, excerpt),
			author       = COALESCE($6, author),
			category     = COALESCE($7, category),
			tags         = COALESCE($8, tags),
			image        = COALESCE($9, image),
			published    = COALESCE($10, published),
			published_at = COALESCE($11, published_at),
			updated_at   = NOW()
		 WHERE id = $1`,
		id, upd.Slug, upd.Title, upd.Content, upd.Excerpt, upd.Author,
		upd.Category, tags, upd.Image, upd.Published, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}

	return db.GetBlogPostByID(ctx, id)
}

// DeleteBlogPost removes a post.
func (db *DB) DeleteBlogPost(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}
