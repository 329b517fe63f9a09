package httpserve

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/settings"
)

func (s *Server) getHome(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Home.Build(r.Context())
}

func articleFilter(r *http.Request) (f content.ArticleFilter, err error) {
	q := r.URL.Query()
	f.Category = q.Get("category")
	f.Status = q.Get("status")
	f.OnlyBreaking = q.Get("breaking") == "true"
	f.OnlyFeatured = q.Get("featured") == "true"
	if limit := q.Get("limit"); limit != "" {
		if f.Limit, err = strconv.Atoi(limit); err != nil {
			return f, fmt.Errorf("%w: limit %q", ErrBadRequest, limit)
		}
	}
	return f, nil
}

func (s *Server) listPublishedArticles(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	f, err := articleFilter(r)
	if err != nil {
		return nil, err
	}
	f.Status = content.StatusPublished
	return s.Content.Articles(r.Context(), f)
}

func (s *Server) publishedArticle(r *http.Request) (content.Article, error) {
	a, err := s.Content.ArticleBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		return a, err
	}
	if !a.Published() {
		return a, fmt.Errorf("%w: article %s", content.ErrNotFound, a.Slug)
	}
	return a, nil
}

// getPublishedArticle also counts the view
func (s *Server) getPublishedArticle(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	a, err := s.publishedArticle(r)
	if err != nil {
		return nil, err
	}
	s.Content.IncrementViews(r.Context(), a.ID)
	a.Views++
	return a, nil
}

func (s *Server) listArticleComments(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	a, err := s.publishedArticle(r)
	if err != nil {
		return nil, err
	}
	return s.Content.Comments(r.Context(), a.ID)
}

func (s *Server) postComment(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	a, err := s.publishedArticle(r)
	if err != nil {
		return nil, err
	}
	var c content.Comment
	if err := s.decodeBody(w, r, &c); err != nil {
		return nil, err
	}
	c.ArticleID = a.ID
	if c, err = s.Content.SaveComment(r.Context(), c); err != nil {
		return nil, err
	}
	return created(c), nil
}

func (s *Server) likeComment(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.LikeComment(r.Context(), r.PathValue("id"))
}

func (s *Server) listOpenJobs(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Jobs(r.Context(), true)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Job(r.Context(), r.PathValue("id"))
}

func (s *Server) applyForJob(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var a content.JobApplication
	if err := s.decodeBody(w, r, &a); err != nil {
		return nil, err
	}
	a.JobID = r.PathValue("id")
	a, err := s.Content.SubmitApplication(r.Context(), a)
	if err != nil {
		return nil, err
	}
	return created(a), nil
}

func (s *Server) applyForInternship(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var a content.InternshipApplication
	if err := s.decodeBody(w, r, &a); err != nil {
		return nil, err
	}
	a, err := s.Content.SubmitInternship(r.Context(), a)
	if err != nil {
		return nil, err
	}
	return created(a), nil
}

type emailBody struct {
	Email string `json:"email"`
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in emailBody
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	sub, isNew, err := s.Content.Subscribe(r.Context(), in.Email)
	if err != nil {
		return nil, err
	}
	if isNew {
		return created(sub), nil
	}
	return sub, nil
}

func (s *Server) unsubscribe(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in emailBody
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	if err := s.Content.Unsubscribe(r.Context(), in.Email); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}

func (s *Server) listTeam(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.TeamMembers(r.Context())
}

func (s *Server) getAllSettings(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	out := make(map[string]interface{}, len(settings.Keys))
	for _, key := range settings.Keys {
		doc, err := s.Settings.Document(r.Context(), key)
		if err != nil {
			return nil, err
		}
		out[key] = doc
	}
	return out, nil
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.Document(r.Context(), r.PathValue("key"))
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	Token string       `json:"token"`
	User  content.User `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in loginBody
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	token, user, err := s.Content.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return loginResult{Token: token, User: user}, nil
}
