package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/truthlens/newsroom/kvstore"
)

const (
	CommentApproved = "approved"
	CommentPending  = "pending"
	CommentRejected = "rejected"
	CommentSpam     = "spam"
)

type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId" validate:"required"`
	ParentID  string    `json:"parentId,omitempty"`
	Author    string    `json:"author" validate:"max=100"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content" validate:"required,max=5000"`
	Status    string    `json:"status"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentThread is a comment with its nested replies
type CommentThread struct {
	Comment
	Replies []*CommentThread `json:"replies"`
}

// AdminComment is a comment with the article it belongs to
type AdminComment struct {
	Comment
	ArticleTitle string `json:"articleTitle"`
	ArticleSlug  string `json:"articleSlug"`
}

func (s *Service) articleComments(ctx context.Context, articleID string) ([]Comment, error) {
	all, err := s.comments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, c := range all {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Comments returns the approved comments of an article as threads: roots newest
// first, replies oldest first. Replies whose parent is not shown are dropped.
func (s *Service) Comments(ctx context.Context, articleID string) ([]*CommentThread, error) {
	list, err := s.articleComments(ctx, articleID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })

	byID := make(map[string]*CommentThread, len(list))
	for _, c := range list {
		if c.Status == CommentApproved {
			byID[c.ID] = &CommentThread{Comment: c, Replies: []*CommentThread{}}
		}
	}
	roots := []*CommentThread{}
	for _, c := range list {
		node, ok := byID[c.ID]
		if !ok {
			continue
		}
		if c.ParentID == "" {
			roots = append(roots, node)
		} else if parent, ok := byID[c.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].CreatedAt.After(roots[j].CreatedAt) })
	return roots, nil
}

// SaveComment stores a new comment. It is held for review when the site moderates comments.
func (s *Service) SaveComment(ctx context.Context, c Comment) (Comment, error) {
	c.Content = strings.TrimSpace(c.Content)
	if err := check(&c); err != nil {
		return c, err
	}
	site, err := s.settings.Site(ctx)
	if err != nil {
		return c, err
	}
	if !site.EnableComments {
		return c, fmt.Errorf("%w: comments are disabled", ErrClosed)
	}
	if _, err := get(ctx, s.articles, c.ArticleID); err != nil {
		return c, err
	}
	if c.ParentID != "" {
		parent, err := get(ctx, s.comments, c.ParentID)
		if err != nil {
			return c, err
		}
		if parent.ArticleID != c.ArticleID {
			return c, fmt.Errorf("%w: reply to a comment of another article", ErrInvalid)
		}
	}
	if c.Author = strings.TrimSpace(c.Author); c.Author == "" {
		c.Author = "Anonymous"
	}
	c.ID = kvstore.NewID()
	if c.Avatar == "" {
		c.Avatar = "https://api.dicebear.com/7.x/avataaars/svg?seed=" + c.ID
	}
	c.Status = CommentApproved
	if site.ModerateComments {
		c.Status = CommentPending
	}
	c.Likes = 0
	c.CreatedAt = s.now().UTC()
	return c, s.comments.Put(ctx, c.ID, c)
}

// DeleteComment removes the comment and every reply below it
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	root, err := get(ctx, s.comments, id)
	if err != nil {
		return err
	}
	list, err := s.articleComments(ctx, root.ArticleID)
	if err != nil {
		return err
	}
	children := map[string][]string{}
	for _, c := range list {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
	}
	for queue := []string{id}; len(queue) > 0; queue = queue[1:] {
		cur := queue[0]
		queue = append(queue, children[cur]...)
		if err := s.comments.Delete(ctx, cur); err != nil {
			return err
		}
	}
	return nil
}

// AllComments lists every comment newest first, with its article title and slug
func (s *Service) AllComments(ctx context.Context) ([]AdminComment, error) {
	list, err := s.comments.List(ctx)
	if err != nil {
		return nil, err
	}
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*Article, len(articles))
	for i := range articles {
		byID[articles[i].ID] = &articles[i]
	}
	out := make([]AdminComment, 0, len(list))
	for _, c := range list {
		ac := AdminComment{Comment: c}
		if a, ok := byID[c.ArticleID]; ok {
			ac.ArticleTitle, ac.ArticleSlug = a.Title, a.Slug
		}
		out = append(out, ac)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) UpdateCommentStatus(ctx context.Context, id, status string) (Comment, error) {
	switch status {
	case CommentApproved, CommentPending, CommentRejected, CommentSpam:
	default:
		return Comment{}, fmt.Errorf("%w: comment status %q", ErrInvalid, status)
	}
	return s.updateComment(ctx, id, func(c *Comment) { c.Status = status })
}

func (s *Service) LikeComment(ctx context.Context, id string) (Comment, error) {
	return s.updateComment(ctx, id, func(c *Comment) { c.Likes++ })
}

func (s *Service) updateComment(ctx context.Context, id string, fn func(c *Comment)) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := get(ctx, s.comments, id)
	if err != nil {
		return c, err
	}
	fn(&c)
	return c, s.comments.Put(ctx, id, c)
}
