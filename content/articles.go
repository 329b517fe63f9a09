package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/kvstore"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusScheduled = "scheduled"
)

type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title" validate:"required,max=300"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	AuthorID      string    `json:"authorId,omitempty"`
	AuthorName    string    `json:"authorName,omitempty"`
	FeaturedImage string    `json:"featuredImage"`
	VideoURL      string    `json:"videoUrl,omitempty"`
	Tags          []string  `json:"tags"`
	IsBreaking    bool      `json:"isBreaking"`
	IsFeatured    bool      `json:"isFeatured"`
	Status        string    `json:"status" validate:"omitempty,oneof=draft published scheduled"`
	PublishedAt   time.Time `json:"publishedAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Views         int64     `json:"views"`
}

func (a *Article) Published() bool { return a.Status == StatusPublished }

type ArticleFilter struct {
	Category     string
	Status       string
	OnlyBreaking bool
	OnlyFeatured bool
	// Limit <= 0 means no limit
	Limit int
}

func (f ArticleFilter) match(a *Article) bool {
	return (f.Category == "" || a.Category == f.Category) &&
		(f.Status == "" || a.Status == f.Status) &&
		(!f.OnlyBreaking || a.IsBreaking) &&
		(!f.OnlyFeatured || a.IsFeatured)
}

// Slugify lower-cases title and joins its letters and digits with single dashes
func Slugify(title string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

// Articles lists articles newest created first
func (s *Service) Articles(ctx context.Context, f ArticleFilter) ([]Article, error) {
	all, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for i := range all {
		if f.match(&all[i]) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Service) Article(ctx context.Context, id string) (Article, error) {
	return get(ctx, s.articles, id)
}

func (s *Service) ArticleBySlug(ctx context.Context, slug string) (Article, error) {
	all, err := s.articles.List(ctx)
	if err != nil {
		return Article{}, err
	}
	for _, a := range all {
		if a.Slug == slug {
			return a, nil
		}
	}
	return Article{}, notFound("article slug", slug)
}

// SaveArticle inserts a when it has no id, otherwise updates the stored article keeping createdAt and views
func (s *Service) SaveArticle(ctx context.Context, a Article) (Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveArticle(ctx, a, false)
}

// saveArticle stores a; with imported set, non zero createdAt and views carried by a are kept
func (s *Service) saveArticle(ctx context.Context, a Article, imported bool) (Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if err := check(&a); err != nil {
		return a, err
	}
	if a.Slug = Slugify(a.Slug); a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Slug == "" {
		return a, fmt.Errorf("%w: title %q yields an empty slug", ErrInvalid, a.Title)
	}
	all, err := s.articles.List(ctx)
	if err != nil {
		return a, err
	}
	var existing *Article
	for i := range all {
		if a.ID != "" && all[i].ID == a.ID {
			existing = &all[i]
		} else if all[i].Slug == a.Slug {
			return a, fmt.Errorf("%w: slug %s", ErrConflict, a.Slug)
		}
	}
	now := s.now().UTC()
	createdAt, views := a.CreatedAt, a.Views
	switch {
	case a.ID == "":
		a.ID = kvstore.NewID()
		a.CreatedAt, a.Views = now, 0
	case existing == nil:
		return a, notFound("article", a.ID)
	default:
		a.CreatedAt, a.Views = existing.CreatedAt, existing.Views
		if a.PublishedAt.IsZero() {
			a.PublishedAt = existing.PublishedAt
		}
	}
	if imported && !createdAt.IsZero() {
		a.CreatedAt = createdAt
	}
	if imported && views > 0 {
		a.Views = views
	}
	if a.Published() && a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	a.UpdatedAt = now
	if err := s.articles.Put(ctx, a.ID, a); err != nil {
		return a, err
	}
	return a, nil
}

// UpsertArticleBySlug updates the article sharing a's slug, or inserts a new one.
// Used for imports, so createdAt and views given in a are kept.
func (s *Service) UpsertArticleBySlug(ctx context.Context, a Article) (saved Article, created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	a.ID = ""
	all, err := s.articles.List(ctx)
	if err != nil {
		return a, false, err
	}
	for _, e := range all {
		if e.Slug == Slugify(a.Slug) {
			a.ID = e.ID
			break
		}
	}
	created = a.ID == ""
	saved, err = s.saveArticle(ctx, a, true)
	return saved, created, err
}

// DeleteArticle removes the article together with its comments
func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := get(ctx, s.articles, id); err != nil {
		return err
	}
	comments, err := s.comments.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if c.ArticleID == id {
			if err := s.comments.Delete(ctx, c.ID); err != nil {
				return err
			}
		}
	}
	return s.articles.Delete(ctx, id)
}

// IncrementViews counts one view; failures are logged, never returned
func (s *Service) IncrementViews(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := get(ctx, s.articles, id)
	if err == nil {
		a.Views++
		err = s.articles.Put(ctx, id, a)
	}
	if err != nil {
		dlog.Warn().Err(err).Str("article", id).Msg("view not counted")
	}
}
