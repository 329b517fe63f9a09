// Package settings manages the content-configuration documents that drive the
// homepage: featured placements, sections, menu, site, social links,
// categories, contact info, internship config and editorial settings.
//
// Each document lives in the key/value store under its own key. Reads merge
// whatever is stored over the built in defaults, writes validate and then
// publish "<key>SettingsUpdated".
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/kvstore"
)

var (
	ErrNotFound        = errors.New("settings item not found")
	ErrInvalid         = errors.New("invalid settings")
	ErrCapacity        = errors.New("capacity reached")
	ErrDuplicate       = errors.New("already selected")
	ErrStaticSection   = errors.New("section holds no articles")
	ErrSectionDisabled = errors.New("section is disabled")
	ErrUnknownKey      = errors.New("unknown settings key")
)

// Publisher receives an event after a settings document is saved
type Publisher interface {
	Publish(event string, payload interface{})
}

type Service struct {
	store kvstore.Store
	pub   Publisher
	// serialises read-modify-write of documents
	mu sync.Mutex
}

func New(store kvstore.Store, pub Publisher) *Service {
	return &Service{store: store, pub: pub}
}

func load[T any](ctx context.Context, s *Service, key string, def T) (T, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return def, nil
	} else if err != nil {
		return def, fmt.Errorf("load %s settings: %w", key, err)
	}
	out := def
	if err = decodeOver(raw, &out); err != nil {
		dlog.Warn().Err(err).Str("key", key).Msg("stored settings unreadable, using defaults")
		return def, nil
	}
	return out, nil
}

func (s *Service) save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err = s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s settings: %w", key, err)
	}
	if s.pub != nil {
		s.pub.Publish(EventName(key), v)
	}
	dlog.Debug().Str("key", key).Msg("settings saved")
	return nil
}

// Document returns the merged document stored under key
func (s *Service) Document(ctx context.Context, key string) (interface{}, error) {
	switch key {
	case KeyFeatured:
		return s.Featured(ctx)
	case KeySections:
		return s.Sections(ctx)
	case KeyMenu:
		return s.Menu(ctx)
	case KeySite:
		return s.Site(ctx)
	case KeySocial:
		return s.Social(ctx)
	case KeyCategories:
		return s.Categories(ctx)
	case KeyContact:
		return s.Contact(ctx)
	case KeyInternshipConfig:
		return s.InternshipConfig(ctx)
	case KeyEditorial:
		return s.Editorial(ctx)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Put decodes raw json for a settings key, validates it and saves it
func (s *Service) Put(ctx context.Context, key string, raw []byte) (interface{}, error) {
	switch key {
	case KeyFeatured:
		return put(ctx, raw, DefaultFeatured(), s.SaveFeatured)
	case KeySections:
		return put(ctx, raw, []Section(nil), s.SaveSections)
	case KeyMenu:
		return put(ctx, raw, []MenuItem(nil), s.SaveMenu)
	case KeySite:
		return put(ctx, raw, DefaultSite(), s.SaveSite)
	case KeySocial:
		return put(ctx, raw, []SocialLink(nil), s.SaveSocial)
	case KeyCategories:
		return put(ctx, raw, []Category(nil), s.SaveCategories)
	case KeyContact:
		return put(ctx, raw, DefaultContact(), s.SaveContact)
	case KeyInternshipConfig:
		return put(ctx, raw, DefaultInternshipConfig(), s.SaveInternshipConfig)
	case KeyEditorial:
		return put(ctx, raw, DefaultEditorial(), s.SaveEditorial)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

func put[T any](ctx context.Context, raw []byte, v T, save func(context.Context, T) error) (T, error) {
	if err := decodeOver(raw, &v); err != nil {
		return v, err
	}
	return v, save(ctx, v)
}

func (s *Service) Site(ctx context.Context) (SiteSettings, error) {
	return load(ctx, s, KeySite, DefaultSite())
}

func (s *Service) SaveSite(ctx context.Context, v SiteSettings) error {
	if err := check(&v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeySite, v)
}

func (s *Service) Social(ctx context.Context) ([]SocialLink, error) {
	return load(ctx, s, KeySocial, DefaultSocial())
}

func (s *Service) SaveSocial(ctx context.Context, v []SocialLink) error {
	if err := checkAll(v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeySocial, nonNil(v))
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return load(ctx, s, KeyCategories, DefaultCategories())
}

func (s *Service) SaveCategories(ctx context.Context, v []Category) error {
	if err := checkAll(v); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, c := range v {
		if seen[c.ID] {
			return fmt.Errorf("%w: category %q listed twice", ErrInvalid, c.ID)
		}
		seen[c.ID] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyCategories, nonNil(v))
}

func (s *Service) Contact(ctx context.Context) (ContactInfo, error) {
	return load(ctx, s, KeyContact, DefaultContact())
}

func (s *Service) SaveContact(ctx context.Context, v ContactInfo) error {
	if err := check(&v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyContact, v)
}

func (s *Service) InternshipConfig(ctx context.Context) (InternshipConfig, error) {
	return load(ctx, s, KeyInternshipConfig, DefaultInternshipConfig())
}

func (s *Service) SaveInternshipConfig(ctx context.Context, v InternshipConfig) error {
	v.Departments = nonNil(v.Departments)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyInternshipConfig, v)
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func truncate(ids []string, max int) []string {
	if len(ids) > max {
		return append([]string(nil), ids[:max]...)
	}
	return ids
}

// addCapped appends id to ids unless it is already present or ids is full
func addCapped(ids []string, id string, max int) ([]string, error) {
	if id == "" {
		return ids, fmt.Errorf("%w: empty article id", ErrInvalid)
	}
	if indexOf(ids, id) >= 0 {
		return ids, fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	if len(ids) >= max {
		return ids, fmt.Errorf("%w: max %d", ErrCapacity, max)
	}
	return append(ids, id), nil
}
