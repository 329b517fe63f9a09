package settings

import (
	"context"
	"fmt"
)

func (s *Service) Featured(ctx context.Context) (FeaturedSettings, error) {
	f, err := load(ctx, s, KeyFeatured, DefaultFeatured())
	f.BreakingNewsIDs = nonNil(f.BreakingNewsIDs)
	f.HeroFeaturedIDs = nonNil(f.HeroFeaturedIDs)
	f.HeroSideArticleIDs = nonNil(f.HeroSideArticleIDs)
	return f, err
}

func (s *Service) SaveFeatured(ctx context.Context, v FeaturedSettings) error {
	if err := checkFeatured(&v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, KeyFeatured, v)
}

func checkFeatured(v *FeaturedSettings) error {
	if err := check(v); err != nil {
		return err
	}
	if len(v.BreakingNewsIDs) > v.MaxBreakingNews {
		return fmt.Errorf("%w: %d breaking news, max %d", ErrCapacity, len(v.BreakingNewsIDs), v.MaxBreakingNews)
	}
	if len(v.HeroFeaturedIDs) > v.MaxHeroArticles {
		return fmt.Errorf("%w: %d hero articles, max %d", ErrCapacity, len(v.HeroFeaturedIDs), v.MaxHeroArticles)
	}
	return nil
}

func (s *Service) updateFeatured(ctx context.Context, fn func(f *FeaturedSettings) error) (FeaturedSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.Featured(ctx)
	if err != nil {
		return f, err
	}
	if err = fn(&f); err != nil {
		return f, err
	}
	if err = checkFeatured(&f); err != nil {
		return f, err
	}
	return f, s.save(ctx, KeyFeatured, f)
}

func (s *Service) AddBreaking(ctx context.Context, articleID string) (FeaturedSettings, error) {
	return s.updateFeatured(ctx, func(f *FeaturedSettings) (err error) {
		f.BreakingNewsIDs, err = addCapped(f.BreakingNewsIDs, articleID, f.MaxBreakingNews)
		return err
	})
}

func (s *Service) RemoveBreaking(ctx context.Context, articleID string) (FeaturedSettings, error) {
	return s.updateFeatured(ctx, func(f *FeaturedSettings) error {
		f.BreakingNewsIDs = without(f.BreakingNewsIDs, articleID)
		return nil
	})
}

func (s *Service) AddHero(ctx context.Context, articleID string) (FeaturedSettings, error) {
	return s.updateFeatured(ctx, func(f *FeaturedSettings) (err error) {
		f.HeroFeaturedIDs, err = addCapped(f.HeroFeaturedIDs, articleID, f.MaxHeroArticles)
		return err
	})
}

func (s *Service) RemoveHero(ctx context.Context, articleID string) (FeaturedSettings, error) {
	return s.updateFeatured(ctx, func(f *FeaturedSettings) error {
		f.HeroFeaturedIDs = without(f.HeroFeaturedIDs, articleID)
		return nil
	})
}

// SetFeaturedCapacity changes both limits, dropping selections beyond them
func (s *Service) SetFeaturedCapacity(ctx context.Context, maxBreaking, maxHero int) (FeaturedSettings, error) {
	return s.updateFeatured(ctx, func(f *FeaturedSettings) error {
		f.MaxBreakingNews, f.MaxHeroArticles = maxBreaking, maxHero
		if err := check(f); err != nil {
			return err
		}
		f.BreakingNewsIDs = truncate(f.BreakingNewsIDs, maxBreaking)
		f.HeroFeaturedIDs = truncate(f.HeroFeaturedIDs, maxHero)
		return nil
	})
}

func (s *Service) SetAutoSwipe(ctx context.Context, breaking, hero bool, intervalMs int) (FeaturedSettings, error) {
	return s.updateFeatured(ctx, func(f *FeaturedSettings) error {
		f.BreakingAutoSwipe, f.HeroAutoSwipe, f.AutoSwipeInterval = breaking, hero, intervalMs
		return nil
	})
}
