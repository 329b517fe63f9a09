// Package content holds the normalized records of the newsroom: articles,
// comments, jobs and job applications, team members, internship
// applications, newsletter subscribers and admin users.
//
// Records of each kind are kept in a kvstore.Collection, so the package runs
// unchanged on every store backend.
package content

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-playground/validator/v10"
	"github.com/truthlens/newsroom/kvstore"
	"github.com/truthlens/newsroom/settings"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalid      = errors.New("invalid record")
	ErrConflict     = errors.New("record already exists")
	ErrClosed       = errors.New("not accepting submissions")
	ErrUnauthorized = errors.New("invalid credentials")
)

var validate = validator.New()

func check(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

type Options struct {
	JwtSecret string
	TokenTTL  time.Duration
	// Events receives "teamMembersUpdated" and similar notifications, may be nil
	Events settings.Publisher
}

type Service struct {
	settings *settings.Service
	events   settings.Publisher

	articles     *kvstore.Collection[Article]
	comments     *kvstore.Collection[Comment]
	jobs         *kvstore.Collection[Job]
	applications *kvstore.Collection[JobApplication]
	team         *kvstore.Collection[TeamMember]
	internships  *kvstore.Collection[InternshipApplication]
	subscribers  *kvstore.Collection[Subscriber]
	users        *kvstore.Collection[userRecord]

	// serialises read-modify-write of records
	mu sync.Mutex

	subscriberOnce  sync.Once
	subscriberBloom *bloom.BloomFilter
	sharedStore     bool

	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func New(store kvstore.Store, st *settings.Service, opts Options) *Service {
	s := &Service{
		settings:     st,
		events:       opts.Events,
		articles:     kvstore.NewCollection[Article](store, "article"),
		comments:     kvstore.NewCollection[Comment](store, "comment"),
		jobs:         kvstore.NewCollection[Job](store, "job"),
		applications: kvstore.NewCollection[JobApplication](store, "application"),
		team:         kvstore.NewCollection[TeamMember](store, "team"),
		internships:  kvstore.NewCollection[InternshipApplication](store, "internship"),
		subscribers:  kvstore.NewCollection[Subscriber](store, "subscriber"),
		users:        kvstore.NewCollection[userRecord](store, "user"),
		jwtSecret:    []byte(opts.JwtSecret),
		tokenTTL:     opts.TokenTTL,
		now:          time.Now,
		sharedStore:  kvstore.Shared(store),
	}
	if len(s.jwtSecret) == 0 {
		buf := make([]byte, 32)
		rand.Read(buf)
		s.jwtSecret = []byte(hex.EncodeToString(buf))
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = 7 * 24 * time.Hour
	}
	return s
}

func (s *Service) publish(event string, payload interface{}) {
	if s.events != nil {
		s.events.Publish(event, payload)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// get wraps Collection.Get so callers only see this package's ErrNotFound
func get[T any](ctx context.Context, c *kvstore.Collection[T], id string) (T, error) {
	v, err := c.Get(ctx, id)
	if errors.Is(err, kvstore.ErrNotFound) || errors.Is(err, kvstore.ErrInvalidKey) {
		return v, notFound(c.Name, id)
	}
	return v, err
}
