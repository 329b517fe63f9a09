package settings

import (
	"context"
	"fmt"
	"sort"

	"github.com/truthlens/newsroom/kvstore"
)

// Menu returns the header menu sorted by order
func (s *Service) Menu(ctx context.Context) ([]MenuItem, error) {
	items, err := load(ctx, s, KeyMenu, DefaultMenu())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].Order < items[b].Order })
	return nonNil(items), nil
}

// VisibleMenu drops hidden items
func (s *Service) VisibleMenu(ctx context.Context) ([]MenuItem, error) {
	items, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	visible := items[:0]
	for _, it := range items {
		if it.IsVisible {
			visible = append(visible, it)
		}
	}
	return visible, nil
}

func (s *Service) SaveMenu(ctx context.Context, v []MenuItem) error {
	if err := checkAll(v); err != nil {
		return err
	}
	for i := range v {
		if v[i].ID == "" {
			v[i].ID = kvstore.NewID()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyMenu, nonNil(v))
}

func renumber(items []MenuItem) {
	for i := range items {
		items[i].Order = i + 1
	}
}

func findMenuItem(items []MenuItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// updateMenu runs fn on the ordered menu; fn returns false to skip saving
func (s *Service) updateMenu(ctx context.Context, fn func(items []MenuItem) ([]MenuItem, bool, error)) ([]MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	items, changed, err := fn(items)
	if err != nil || !changed {
		return items, err
	}
	return items, s.save(ctx, KeyMenu, items)
}

// AddMenuItem appends item with a fresh id at order n+1
func (s *Service) AddMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	if item.Type == "" {
		item.Type = "page"
	}
	if err := check(&item); err != nil {
		return item, err
	}
	item.ID = kvstore.NewID()
	_, err := s.updateMenu(ctx, func(items []MenuItem) ([]MenuItem, bool, error) {
		item.Order = len(items) + 1
		return append(items, item), true, nil
	})
	return item, err
}

// UpdateMenuItem replaces the editable fields of the item with the same id, keeping its order
func (s *Service) UpdateMenuItem(ctx context.Context, item MenuItem) ([]MenuItem, error) {
	if err := check(&item); err != nil {
		return nil, err
	}
	return s.updateMenu(ctx, func(items []MenuItem) ([]MenuItem, bool, error) {
		i := findMenuItem(items, item.ID)
		if i < 0 {
			return nil, false, fmt.Errorf("%w: menu item %s", ErrNotFound, item.ID)
		}
		item.Order = items[i].Order
		items[i] = item
		return items, true, nil
	})
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) ([]MenuItem, error) {
	return s.updateMenu(ctx, func(items []MenuItem) ([]MenuItem, bool, error) {
		i := findMenuItem(items, id)
		if i < 0 {
			return nil, false, fmt.Errorf("%w: menu item %s", ErrNotFound, id)
		}
		items = append(items[:i], items[i+1:]...)
		renumber(items)
		return items, true, nil
	})
}

// MoveMenuItem swaps the item with its neighbour; moving past either end changes nothing
func (s *Service) MoveMenuItem(ctx context.Context, id string, up bool) ([]MenuItem, error) {
	return s.updateMenu(ctx, func(items []MenuItem) ([]MenuItem, bool, error) {
		i := findMenuItem(items, id)
		if i < 0 {
			return nil, false, fmt.Errorf("%w: menu item %s", ErrNotFound, id)
		}
		j := i + 1
		if up {
			j = i - 1
		}
		if j < 0 || j >= len(items) {
			return items, false, nil
		}
		items[i], items[j] = items[j], items[i]
		renumber(items)
		return items, true, nil
	})
}

func (s *Service) toggleMenu(ctx context.Context, id string, flip func(it *MenuItem)) ([]MenuItem, error) {
	return s.updateMenu(ctx, func(items []MenuItem) ([]MenuItem, bool, error) {
		i := findMenuItem(items, id)
		if i < 0 {
			return nil, false, fmt.Errorf("%w: menu item %s", ErrNotFound, id)
		}
		flip(&items[i])
		return items, true, nil
	})
}

func (s *Service) ToggleMenuVisibility(ctx context.Context, id string) ([]MenuItem, error) {
	return s.toggleMenu(ctx, id, func(it *MenuItem) { it.IsVisible = !it.IsVisible })
}

func (s *Service) ToggleMenuHighlight(ctx context.Context, id string) ([]MenuItem, error) {
	return s.toggleMenu(ctx, id, func(it *MenuItem) { it.Highlight = !it.Highlight })
}
