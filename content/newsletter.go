package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/truthlens/newsroom/dlog"
)

type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	IsActive     bool      `json:"isActive"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// subscriberID keys subscribers by email without putting the raw address in a store key
func subscriberID(email string) string {
	return strconv.FormatUint(xxhash.Sum64String(email), 16)
}

// subscriberFilter is filled with every known subscriber id on first use.
// A miss means the email was never stored by this process, so the lookup can be skipped.
// It returns nil on shared stores, where other processes add subscribers too.
func (s *Service) subscriberFilter(ctx context.Context) *bloom.BloomFilter {
	if s.sharedStore {
		return nil
	}
	s.subscriberOnce.Do(func() {
		keys, err := s.subscribers.Store.Keys(ctx, s.subscribers.Name+":")
		if err != nil {
			dlog.Warn().Err(err).Msg("newsletter filter not built, every subscribe does a lookup")
			return
		}
		capacity := len(keys)*2 + 10000
		f := bloom.NewWithEstimates(uint(capacity), 0.001)
		for _, k := range keys {
			f.AddString(strings.TrimPrefix(k, s.subscribers.Name+":"))
		}
		s.subscriberBloom = f
	})
	return s.subscriberBloom
}

// Subscribe adds email to the newsletter. A known email is reactivated instead.
func (s *Service) Subscribe(ctx context.Context, email string) (sub Subscriber, created bool, err error) {
	sub = Subscriber{Email: normalizeEmail(email)}
	if err = check(&sub); err != nil {
		return sub, false, err
	}
	site, err := s.settings.Site(ctx)
	if err != nil {
		return sub, false, err
	}
	if !site.EnableNewsletter {
		return sub, false, fmt.Errorf("%w: newsletter is disabled", ErrClosed)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = subscriberID(sub.Email)
	filter := s.subscriberFilter(ctx)
	if filter == nil || filter.TestString(sub.ID) {
		existing, err := get(ctx, s.subscribers, sub.ID)
		if err == nil {
			existing.IsActive = true
			return existing, false, s.subscribers.Put(ctx, existing.ID, existing)
		} else if !errors.Is(err, ErrNotFound) {
			return sub, false, err
		}
	}
	sub.SubscribedAt = s.now().UTC()
	sub.IsActive = true
	if err = s.subscribers.Put(ctx, sub.ID, sub); err != nil {
		return sub, false, err
	}
	if filter != nil {
		filter.AddString(sub.ID)
	}
	return sub, true, nil
}

func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := get(ctx, s.subscribers, subscriberID(normalizeEmail(email)))
	if err != nil {
		return err
	}
	sub.IsActive = false
	return s.subscribers.Put(ctx, sub.ID, sub)
}

// Subscribers lists subscribers newest first
func (s *Service) Subscribers(ctx context.Context, activeOnly bool) ([]Subscriber, error) {
	all, err := s.subscribers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, sub := range all {
		if !activeOnly || sub.IsActive {
			out = append(out, sub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out, nil
}
