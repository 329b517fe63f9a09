package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/kvstore"
)

// Sections returns the homepage sections sorted by order.
// Saved entries are merged onto the defaults by id: saved fields win, ids that
// are not among the defaults are dropped.
func (s *Service) Sections(ctx context.Context) ([]Section, error) {
	defs := DefaultSections()
	raw, err := s.store.Get(ctx, KeySections)
	if errors.Is(err, kvstore.ErrNotFound) {
		return defs, nil
	} else if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	var saved []map[string]interface{}
	if err = json.Unmarshal(raw, &saved); err != nil {
		dlog.Warn().Err(err).Msg("stored sections unreadable, using defaults")
		return defs, nil
	}
	byID := make(map[string]map[string]interface{}, len(saved))
	for _, m := range saved {
		if id, ok := m["id"].(string); ok {
			byID[id] = m
		}
	}
	for i := range defs {
		m, ok := byID[defs[i].ID]
		if !ok {
			continue
		}
		merged := defs[i]
		if err := decodeValue(m, &merged); err != nil {
			dlog.Warn().Err(err).Str("section", defs[i].ID).Msg("stored section unreadable, using default")
			continue
		}
		merged.ID = defs[i].ID
		merged.SelectedArticleIDs = nonNil(merged.SelectedArticleIDs)
		if defs[i].Static() {
			merged.MaxArticles, merged.SelectedArticleIDs = 0, []string{}
		}
		defs[i] = merged
	}
	sort.SliceStable(defs, func(a, b int) bool { return defs[a].Order < defs[b].Order })
	return defs, nil
}

// SaveSections replaces the sections document. Static sections stay static,
// other sections keep a max in 1..10 and selections hold distinct non-empty ids.
func (s *Service) SaveSections(ctx context.Context, v []Section) error {
	if err := checkAll(v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.Sections(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]Section, len(current))
	for _, sec := range current {
		byID[sec.ID] = sec
	}
	for i := range v {
		if err = checkSection(byID, &v[i]); err != nil {
			return err
		}
		v[i].SelectedArticleIDs = nonNil(v[i].SelectedArticleIDs)
	}
	return s.save(ctx, KeySections, nonNil(v))
}

func checkSection(current map[string]Section, sec *Section) error {
	if cur, ok := current[sec.ID]; ok {
		if cur.Static() && sec.MaxArticles != 0 {
			return fmt.Errorf("%w: %s", ErrStaticSection, sec.ID)
		}
		if !cur.Static() && (sec.MaxArticles < 1 || sec.MaxArticles > 10) {
			return fmt.Errorf("%w: section %s max articles %d not in 1..10", ErrInvalid, sec.ID, sec.MaxArticles)
		}
	}
	if len(sec.SelectedArticleIDs) > sec.MaxArticles {
		return fmt.Errorf("%w: section %s holds %d of %d", ErrCapacity, sec.ID, len(sec.SelectedArticleIDs), sec.MaxArticles)
	}
	seen := make(map[string]bool, len(sec.SelectedArticleIDs))
	for _, id := range sec.SelectedArticleIDs {
		if id == "" {
			return fmt.Errorf("%w: section %s selects an empty article id", ErrInvalid, sec.ID)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s in section %s", ErrDuplicate, id, sec.ID)
		}
		seen[id] = true
	}
	return nil
}

// Section returns one section by id
func (s *Service) Section(ctx context.Context, id string) (Section, error) {
	secs, err := s.Sections(ctx)
	if err != nil {
		return Section{}, err
	}
	for _, sec := range secs {
		if sec.ID == id {
			return sec, nil
		}
	}
	return Section{}, fmt.Errorf("%w: section %s", ErrNotFound, id)
}

func (s *Service) updateSection(ctx context.Context, id string, fn func(sec *Section) error) ([]Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secs, err := s.Sections(ctx)
	if err != nil {
		return nil, err
	}
	for i := range secs {
		if secs[i].ID != id {
			continue
		}
		if err = fn(&secs[i]); err != nil {
			return nil, err
		}
		return secs, s.save(ctx, KeySections, secs)
	}
	return nil, fmt.Errorf("%w: section %s", ErrNotFound, id)
}

func (s *Service) ToggleSection(ctx context.Context, id string) ([]Section, error) {
	return s.updateSection(ctx, id, func(sec *Section) error {
		sec.Enabled = !sec.Enabled
		return nil
	})
}

func (s *Service) ToggleSectionHomepage(ctx context.Context, id string) ([]Section, error) {
	return s.updateSection(ctx, id, func(sec *Section) error {
		sec.ShowOnHomepage = !sec.ShowOnHomepage
		return nil
	})
}

// SetSectionMax changes the capacity of a section; selections beyond the new max are dropped
func (s *Service) SetSectionMax(ctx context.Context, id string, max int) ([]Section, error) {
	if max < 1 || max > 10 {
		return nil, fmt.Errorf("%w: max articles %d not in 1..10", ErrInvalid, max)
	}
	return s.updateSection(ctx, id, func(sec *Section) error {
		if sec.Static() {
			return fmt.Errorf("%w: %s", ErrStaticSection, sec.ID)
		}
		sec.MaxArticles = max
		sec.SelectedArticleIDs = truncate(sec.SelectedArticleIDs, max)
		return nil
	})
}

func (s *Service) AddSectionArticle(ctx context.Context, id, articleID string) ([]Section, error) {
	return s.updateSection(ctx, id, func(sec *Section) (err error) {
		if sec.Static() {
			return fmt.Errorf("%w: %s", ErrStaticSection, sec.ID)
		}
		if !sec.Enabled {
			return fmt.Errorf("%w: %s", ErrSectionDisabled, sec.ID)
		}
		sec.SelectedArticleIDs, err = addCapped(sec.SelectedArticleIDs, articleID, sec.MaxArticles)
		return err
	})
}

func (s *Service) RemoveSectionArticle(ctx context.Context, id, articleID string) ([]Section, error) {
	return s.updateSection(ctx, id, func(sec *Section) error {
		sec.SelectedArticleIDs = without(sec.SelectedArticleIDs, articleID)
		return nil
	})
}

// ReorderSections renumbers order 1..n following ids, which must name every section exactly once
func (s *Service) ReorderSections(ctx context.Context, ids []string) ([]Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secs, err := s.Sections(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(secs) {
		return nil, fmt.Errorf("%w: reorder needs all %d sections, got %d", ErrInvalid, len(secs), len(ids))
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := pos[id]; dup {
			return nil, fmt.Errorf("%w: section %s listed twice", ErrInvalid, id)
		}
		pos[id] = i
	}
	for i := range secs {
		p, ok := pos[secs[i].ID]
		if !ok {
			return nil, fmt.Errorf("%w: section %s missing from order", ErrInvalid, secs[i].ID)
		}
		secs[i].Order = p + 1
	}
	sort.SliceStable(secs, func(a, b int) bool { return secs[a].Order < secs[b].Order })
	return secs, s.save(ctx, KeySections, secs)
}
