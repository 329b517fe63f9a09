package httpserve

import (
	"net/http"

	"github.com/truthlens/newsroom/permission"
)

func (s *Server) routes() {
	// generic documents
	s.handle("GET /api", s.getAllDocuments)
	s.handle("GET /api/{key}", s.getDocument)
	s.handle("POST /api/{key}", s.putDocument)
	s.handle("DELETE /api/{key}", s.deleteDocument)

	// public
	s.handle("GET /api/v1/home", s.getHome)
	s.handle("GET /api/v1/articles", s.listPublishedArticles)
	s.handle("GET /api/v1/articles/{slug}", s.getPublishedArticle)
	s.handle("GET /api/v1/articles/{slug}/comments", s.listArticleComments)
	s.handle("POST /api/v1/articles/{slug}/comments", s.postComment)
	s.handle("POST /api/v1/comments/{id}/like", s.likeComment)
	s.handle("GET /api/v1/jobs", s.listOpenJobs)
	s.handle("GET /api/v1/jobs/{id}", s.getJob)
	s.handle("POST /api/v1/jobs/{id}/applications", s.applyForJob)
	s.handle("POST /api/v1/internships", s.applyForInternship)
	s.handle("POST /api/v1/newsletter", s.subscribe)
	s.handle("POST /api/v1/newsletter/unsubscribe", s.unsubscribe)
	s.handle("GET /api/v1/team", s.listTeam)
	s.handle("GET /api/v1/settings", s.getAllSettings)
	s.handle("GET /api/v1/settings/{key}", s.getSettings)
	s.handle("POST /api/v1/auth/login", s.login)

	// admin
	s.admin("GET /api/v1/admin/me", "", s.getMe)
	s.admin("PUT /api/v1/admin/me", "", s.updateMe)
	s.admin("GET /api/v1/admin/users", permission.Users, s.listUsers)
	s.admin("POST /api/v1/admin/users", permission.Users, s.createUser)
	s.admin("DELETE /api/v1/admin/users/{id}", permission.Users, s.deleteUser)
	s.admin("POST /api/v1/admin/permissions/reload", permission.Users, s.reloadPermissions)
	s.admin("GET /api/v1/admin/permissions", permission.Users, s.getPermissions)
	s.admin("PUT /api/v1/admin/permissions", permission.Users, s.putPermissions)

	s.admin("GET /api/v1/admin/articles", permission.Articles, s.listArticles)
	s.admin("GET /api/v1/admin/articles/{id}", permission.Articles, s.getArticle)
	s.admin("POST /api/v1/admin/articles", permission.Articles, s.createArticle)
	s.admin("PUT /api/v1/admin/articles/{id}", permission.Articles, s.updateArticle)
	s.admin("DELETE /api/v1/admin/articles/{id}", permission.Articles, s.deleteArticle)

	s.admin("GET /api/v1/admin/comments", permission.Comments, s.listComments)
	s.admin("PUT /api/v1/admin/comments/{id}/status", permission.Comments, s.setCommentStatus)
	s.admin("DELETE /api/v1/admin/comments/{id}", permission.Comments, s.deleteComment)

	s.admin("GET /api/v1/admin/jobs", permission.Jobs, s.listJobs)
	s.admin("POST /api/v1/admin/jobs", permission.Jobs, s.createJob)
	s.admin("PUT /api/v1/admin/jobs/{id}", permission.Jobs, s.updateJob)
	s.admin("DELETE /api/v1/admin/jobs/{id}", permission.Jobs, s.deleteJob)
	s.admin("GET /api/v1/admin/applications", permission.Applications, s.listApplications)
	s.admin("PUT /api/v1/admin/applications/{id}/status", permission.Applications, s.setApplicationStatus)

	s.admin("POST /api/v1/admin/team", permission.Team, s.upsertTeamMember)
	s.admin("PUT /api/v1/admin/team", permission.Team, s.saveTeam)
	s.admin("DELETE /api/v1/admin/team/{id}", permission.Team, s.deleteTeamMember)

	s.admin("GET /api/v1/admin/internships", permission.Internships, s.listInternships)
	s.admin("PUT /api/v1/admin/internships/{id}/status", permission.Internships, s.setInternshipStatus)
	s.admin("DELETE /api/v1/admin/internships/{id}", permission.Internships, s.deleteInternship)

	s.admin("GET /api/v1/admin/subscribers", permission.Subscribers, s.listSubscribers)
	s.admin("POST /api/v1/admin/restore", permission.Restore, s.restoreSeed)

	s.settingsRoutes()

	s.mux.HandleFunc("GET /ws", s.serveEvents)
	s.mux.Handle("GET /metrics", s.metrics.handler())
	s.mux.HandleFunc("GET /", s.metrics.instrument("GET /", s.serveStatic))
}

func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		http.Error(w, "events are not enabled", http.StatusNotFound)
		return
	}
	s.Hub.ServeWS(w, r)
}
