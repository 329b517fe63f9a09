package httpserve

import (
	"net/http"

	"github.com/truthlens/newsroom/permission"
	"github.com/truthlens/newsroom/settings"
)

func (s *Server) settingsRoutes() {
	op := permission.Settings
	s.admin("PUT /api/v1/admin/settings/{key}", op, s.putSettings)

	s.admin("PUT /api/v1/admin/sections/order", op, s.reorderSections)
	s.admin("POST /api/v1/admin/sections/{id}/toggle", op, s.toggleSection)
	s.admin("POST /api/v1/admin/sections/{id}/homepage", op, s.toggleSectionHomepage)
	s.admin("PUT /api/v1/admin/sections/{id}/max", op, s.setSectionMax)
	s.admin("POST /api/v1/admin/sections/{id}/articles", op, s.addSectionArticle)
	s.admin("DELETE /api/v1/admin/sections/{id}/articles/{articleId}", op, s.removeSectionArticle)

	s.admin("POST /api/v1/admin/featured/breaking", op, s.addBreaking)
	s.admin("DELETE /api/v1/admin/featured/breaking/{articleId}", op, s.removeBreaking)
	s.admin("POST /api/v1/admin/featured/hero", op, s.addHero)
	s.admin("DELETE /api/v1/admin/featured/hero/{articleId}", op, s.removeHero)
	s.admin("PUT /api/v1/admin/featured/capacity", op, s.setFeaturedCapacity)
	s.admin("PUT /api/v1/admin/featured/autoswipe", op, s.setAutoSwipe)

	s.admin("POST /api/v1/admin/menu", op, s.addMenuItem)
	s.admin("PUT /api/v1/admin/menu/{id}", op, s.updateMenuItem)
	s.admin("DELETE /api/v1/admin/menu/{id}", op, s.deleteMenuItem)
	s.admin("POST /api/v1/admin/menu/{id}/up", op, s.moveMenuItem(true))
	s.admin("POST /api/v1/admin/menu/{id}/down", op, s.moveMenuItem(false))
	s.admin("POST /api/v1/admin/menu/{id}/visibility", op, s.toggleMenuVisibility)
	s.admin("POST /api/v1/admin/menu/{id}/highlight", op, s.toggleMenuHighlight)

	s.admin("POST /api/v1/admin/editorial", op, s.addEditorial)
	s.admin("DELETE /api/v1/admin/editorial/{articleId}", op, s.removeEditorial)
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	raw, err := s.documentBody(w, r)
	if err != nil {
		return nil, err
	}
	return s.Settings.Put(r.Context(), r.PathValue("key"), raw)
}

type idsBody struct {
	IDs []string `json:"ids"`
}

type articleBody struct {
	ArticleID string `json:"articleId"`
}

func (s *Server) articleID(w http.ResponseWriter, r *http.Request) (string, error) {
	var in articleBody
	err := s.decodeBody(w, r, &in)
	return in.ArticleID, err
}

func (s *Server) reorderSections(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in idsBody
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	return s.Settings.ReorderSections(r.Context(), in.IDs)
}

func (s *Server) toggleSection(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.ToggleSection(r.Context(), r.PathValue("id"))
}

func (s *Server) toggleSectionHomepage(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.ToggleSectionHomepage(r.Context(), r.PathValue("id"))
}

func (s *Server) setSectionMax(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in struct {
		MaxArticles int `json:"maxArticles"`
	}
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	return s.Settings.SetSectionMax(r.Context(), r.PathValue("id"), in.MaxArticles)
}

func (s *Server) addSectionArticle(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id, err := s.articleID(w, r)
	if err != nil {
		return nil, err
	}
	return s.Settings.AddSectionArticle(r.Context(), r.PathValue("id"), id)
}

func (s *Server) removeSectionArticle(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.RemoveSectionArticle(r.Context(), r.PathValue("id"), r.PathValue("articleId"))
}

func (s *Server) addBreaking(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id, err := s.articleID(w, r)
	if err != nil {
		return nil, err
	}
	return s.Settings.AddBreaking(r.Context(), id)
}

func (s *Server) removeBreaking(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.RemoveBreaking(r.Context(), r.PathValue("articleId"))
}

func (s *Server) addHero(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id, err := s.articleID(w, r)
	if err != nil {
		return nil, err
	}
	return s.Settings.AddHero(r.Context(), id)
}

func (s *Server) removeHero(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.RemoveHero(r.Context(), r.PathValue("articleId"))
}

func (s *Server) setFeaturedCapacity(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in struct {
		MaxBreakingNews int `json:"maxBreakingNews"`
		MaxHeroArticles int `json:"maxHeroArticles"`
	}
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	return s.Settings.SetFeaturedCapacity(r.Context(), in.MaxBreakingNews, in.MaxHeroArticles)
}

func (s *Server) setAutoSwipe(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var in struct {
		BreakingAutoSwipe bool `json:"breakingAutoSwipe"`
		HeroAutoSwipe     bool `json:"heroAutoSwipe"`
		AutoSwipeInterval int  `json:"autoSwipeInterval"`
	}
	if err := s.decodeBody(w, r, &in); err != nil {
		return nil, err
	}
	return s.Settings.SetAutoSwipe(r.Context(), in.BreakingAutoSwipe, in.HeroAutoSwipe, in.AutoSwipeInterval)
}

func (s *Server) addMenuItem(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var item settings.MenuItem
	if err := s.decodeBody(w, r, &item); err != nil {
		return nil, err
	}
	item, err := s.Settings.AddMenuItem(r.Context(), item)
	if err != nil {
		return nil, err
	}
	return created(item), nil
}

func (s *Server) updateMenuItem(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	var item settings.MenuItem
	if err := s.decodeBody(w, r, &item); err != nil {
		return nil, err
	}
	item.ID = r.PathValue("id")
	return s.Settings.UpdateMenuItem(r.Context(), item)
}

func (s *Server) deleteMenuItem(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.DeleteMenuItem(r.Context(), r.PathValue("id"))
}

func (s *Server) moveMenuItem(up bool) apiFunc {
	return func(w http.ResponseWriter, r *http.Request) (interface{}, error) {
		return s.Settings.MoveMenuItem(r.Context(), r.PathValue("id"), up)
	}
}

func (s *Server) toggleMenuVisibility(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.ToggleMenuVisibility(r.Context(), r.PathValue("id"))
}

func (s *Server) toggleMenuHighlight(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.ToggleMenuHighlight(r.Context(), r.PathValue("id"))
}

func (s *Server) addEditorial(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id, err := s.articleID(w, r)
	if err != nil {
		return nil, err
	}
	return s.Settings.AddEditorial(r.Context(), id)
}

func (s *Server) removeEditorial(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return s.Settings.RemoveEditorial(r.Context(), r.PathValue("articleId"))
}
