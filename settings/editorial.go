package settings

import (
	"context"
	"fmt"
)

func (s *Service) Editorial(ctx context.Context) (EditorialSettings, error) {
	e, err := load(ctx, s, KeyEditorial, DefaultEditorial())
	e.EditorialIDs = nonNil(e.EditorialIDs)
	return e, err
}

func checkEditorial(v *EditorialSettings) error {
	if err := check(v); err != nil {
		return err
	}
	if len(v.EditorialIDs) > v.MaxEditorials {
		return fmt.Errorf("%w: %d editorials, max %d", ErrCapacity, len(v.EditorialIDs), v.MaxEditorials)
	}
	return nil
}

func (s *Service) SaveEditorial(ctx context.Context, v EditorialSettings) error {
	if err := checkEditorial(&v); err != nil {
		return err
	}
	v.EditorialIDs = nonNil(v.EditorialIDs)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyEditorial, v)
}

func (s *Service) updateEditorial(ctx context.Context, fn func(e *EditorialSettings) error) (EditorialSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.Editorial(ctx)
	if err != nil {
		return e, err
	}
	if err = fn(&e); err != nil {
		return e, err
	}
	if err = checkEditorial(&e); err != nil {
		return e, err
	}
	return e, s.save(ctx, KeyEditorial, e)
}

func (s *Service) AddEditorial(ctx context.Context, articleID string) (EditorialSettings, error) {
	return s.updateEditorial(ctx, func(e *EditorialSettings) (err error) {
		e.EditorialIDs, err = addCapped(e.EditorialIDs, articleID, e.MaxEditorials)
		return err
	})
}

func (s *Service) RemoveEditorial(ctx context.Context, articleID string) (EditorialSettings, error) {
	return s.updateEditorial(ctx, func(e *EditorialSettings) error {
		e.EditorialIDs = without(e.EditorialIDs, articleID)
		return nil
	})
}
