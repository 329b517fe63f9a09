package httpserve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/truthlens/newsroom/kvstore"
	"github.com/truthlens/newsroom/permission"
	"github.com/truthlens/newsroom/settings"
)

const EventDocumentUpdated = "documentUpdated"

// recordKey reports keys owned by a typed collection ("article:<id>") or internal ones ("_permissions").
// They are reached through /api/v1 only.
func recordKey(key string) bool {
	return strings.Contains(key, ":") || strings.HasPrefix(key, "_")
}

func (s *Server) getAllDocuments(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	all, err := s.Store.All(r.Context())
	if err != nil {
		return nil, err
	}
	for key := range all {
		if recordKey(key) {
			delete(all, key)
		}
	}
	return all, nil
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	key := r.PathValue("key")
	if recordKey(key) {
		return nil, fmt.Errorf("%w: %s", kvstore.ErrNotFound, key)
	}
	if settings.IsSettingsKey(key) {
		return s.Settings.Document(r.Context(), key)
	}
	raw, err := s.Store.Get(r.Context(), key)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// putDocument validates settings documents; any other key is stored as given
func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	key := r.PathValue("key")
	if recordKey(key) {
		return nil, fmt.Errorf("%w: %s is managed through /api/v1", ErrBadRequest, key)
	}
	operation := permission.Store
	if settings.IsSettingsKey(key) {
		operation = permission.Settings
	}
	if _, err := s.Authorize(r, operation); err != nil {
		return nil, err
	}
	raw, err := s.documentBody(w, r)
	if err != nil {
		return nil, err
	}
	if settings.IsSettingsKey(key) {
		return s.Settings.Put(r.Context(), key, raw)
	}
	if err := s.Store.Set(r.Context(), key, raw); err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.Publish(EventDocumentUpdated, map[string]string{"key": key})
	}
	return json.RawMessage(raw), nil
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) (interface{}, error) {
	key := r.PathValue("key")
	if recordKey(key) {
		return nil, fmt.Errorf("%w: %s is managed through /api/v1", ErrBadRequest, key)
	}
	if _, err := s.Authorize(r, permission.Store); err != nil {
		return nil, err
	}
	if err := s.Store.Del(r.Context(), key); err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.Publish(EventDocumentUpdated, map[string]string{"key": key})
	}
	return map[string]bool{"success": true}, nil
}
