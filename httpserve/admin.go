package httpserve

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/permission"
	"github.com/truthlens/newsroom/restore"
)

var success = map[string]bool{"success": true}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.CurrentUser(r.Context(), claimsOf(r).Subject)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var p content.ProfileUpdate
	if err := s.decodeBody(w, r, &p); err != nil {
		return nil, err
	}
	return s.Content.UpdateProfile(r.Context(), claimsOf(r).Subject, p)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Users(r.Context())
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var nu content.NewUser
	if err := s.decodeBody(w, r, &nu); err != nil {
		return nil, err
	}
	u, err := s.Content.CreateUser(r.Context(), nu)
	if err != nil {
		return nil, err
	}
	return created(u), nil
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id := r.PathValue("id")
	if id == claimsOf(r).Subject {
		return nil, fmt.Errorf("%w: cannot delete the signed in user", ErrBadRequest)
	}
	if err := s.Content.DeleteUser(r.Context(), id); err != nil {
		return nil, err
	}
	s.forgetUser(id)
	return success, nil
}

func (s *Server) reloadPermissions(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return success, permission.LoadPermissionTable(r.Context(), s.Store)
}

type permissionsView struct {
	Overrides map[string]map[string]bool `json:"overrides"`
	Effective map[string][]string        `json:"effective"`
}

func (s *Server) getPermissions(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	overrides, err := permission.Overrides(r.Context(), s.Store)
	if err != nil {
		return nil, err
	}
	return permissionsView{Overrides: overrides, Effective: permission.Effective()}, nil
}

// putPermissions replaces the overrides, e.g. {"editor":{"users":true},"reporter":{"comments":true}}
func (s *Server) putPermissions(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var overrides map[string]map[string]bool
	if err := s.decodeBody(w, r, &overrides); err != nil {
		return nil, err
	}
	if overrides == nil {
		overrides = map[string]map[string]bool{}
	}
	if err := permission.SaveOverrides(r.Context(), s.Store, overrides); err != nil {
		return nil, err
	}
	return permissionsView{Overrides: overrides, Effective: permission.Effective()}, nil
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	f, err := articleFilter(r)
	if err != nil {
		return nil, err
	}
	return s.Content.Articles(r.Context(), f)
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Article(r.Context(), r.PathValue("id"))
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var a content.Article
	if err := s.decodeBody(w, r, &a); err != nil {
		return nil, err
	}
	a.ID = ""
	if a.AuthorID == "" && a.AuthorName == "" {
		claims := claimsOf(r)
		a.AuthorID, a.AuthorName = claims.Subject, claims.Name
	}
	a, err := s.Content.SaveArticle(r.Context(), a)
	if err != nil {
		return nil, err
	}
	return created(a), nil
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var a content.Article
	if err := s.decodeBody(w, r, &a); err != nil {
		return nil, err
	}
	a.ID = r.PathValue("id")
	return s.Content.SaveArticle(r.Context(), a)
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return success, s.Content.DeleteArticle(r.Context(), r.PathValue("id"))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.AllComments(r.Context())
}

type statusBody struct {
	Status string `json:"status"`
}

func (s *Server) setCommentStatus(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in statusBody
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	return s.Content.UpdateCommentStatus(r.Context(), r.PathValue("id"), in.Status)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return success, s.Content.DeleteComment(r.Context(), r.PathValue("id"))
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Jobs(r.Context(), r.URL.Query().Get("open") == "true")
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var j content.Job
	if err := s.decodeBody(w, r, &j); err != nil {
		return nil, err
	}
	j.ID = ""
	j, err := s.Content.SaveJob(r.Context(), j)
	if err != nil {
		return nil, err
	}
	return created(j), nil
}

func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var j content.Job
	if err := s.decodeBody(w, r, &j); err != nil {
		return nil, err
	}
	j.ID = r.PathValue("id")
	return s.Content.SaveJob(r.Context(), j)
}

func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return success, s.Content.DeleteJob(r.Context(), r.PathValue("id"))
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Applications(r.Context(), r.URL.Query().Get("jobId"))
}

func (s *Server) setApplicationStatus(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in statusBody
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	return s.Content.UpdateApplicationStatus(r.Context(), r.PathValue("id"), in.Status)
}

func (s *Server) upsertTeamMember(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var m content.TeamMember
	if err := s.decodeBody(w, r, &m); err != nil {
		return nil, err
	}
	return s.Content.UpsertTeamMember(r.Context(), m)
}

func (s *Server) saveTeam(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var members []content.TeamMember
	if err := s.decodeBody(w, r, &members); err != nil {
		return nil, err
	}
	return s.Content.SaveTeamMembers(r.Context(), members)
}

func (s *Server) deleteTeamMember(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return success, s.Content.DeleteTeamMember(r.Context(), r.PathValue("id"))
}

func (s *Server) listInternships(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Internships(r.Context())
}

func (s *Server) setInternshipStatus(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in statusBody
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	return s.Content.UpdateInternshipStatus(r.Context(), r.PathValue("id"), in.Status)
}

func (s *Server) deleteInternship(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return success, s.Content.DeleteInternship(r.Context(), r.PathValue("id"))
}

func (s *Server) listSubscribers(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Content.Subscribers(r.Context(), r.URL.Query().Get("active") == "true")
}

// restoreSeed runs the bundled seed, or a yaml seed posted as the body
func (s *Server) restoreSeed(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var (
		seed *restore.Seed
		err  error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		if seed, err = restore.LoadSeed(s.bodyReader(w, r)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	} else if seed, err = restore.DefaultSeed(); err != nil {
		return nil, err
	}
	return s.Restorer.Run(r.Context(), seed)
}
