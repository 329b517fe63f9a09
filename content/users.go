package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/kvstore"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleReporter = "reporter"
)

// User is an admin console account as shown to clients
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar"`
	Website   string    `json:"website,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type userRecord struct {
	User
	PasswordHash string `json:"passwordHash"`
}

type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin editor reporter"`
}

type ProfileUpdate struct {
	Name    string `json:"name" validate:"omitempty,max=100"`
	Avatar  string `json:"avatar" validate:"omitempty,url"`
	Website string `json:"website" validate:"omitempty,url"`
}

// Claims are carried by admin tokens
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) userByEmail(ctx context.Context, email string) (userRecord, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return userRecord{}, err
	}
	email = normalizeEmail(email)
	for _, u := range all {
		if u.Email == email {
			return u, nil
		}
	}
	return userRecord{}, notFound("user", email)
}

func (s *Service) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	nu.Email = normalizeEmail(nu.Email)
	if err := check(&nu); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.userByEmail(ctx, nu.Email); err == nil {
		return User{}, fmt.Errorf("%w: user %s", ErrConflict, nu.Email)
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	rec := userRecord{
		User: User{ID: kvstore.NewID(), Name: nu.Name, Email: nu.Email, Role: nu.Role,
			IsActive: true, CreatedAt: s.now().UTC()},
		PasswordHash: string(hash),
	}
	return rec.User, s.users.Put(ctx, rec.ID, rec)
}

// EnsureAdmin creates the bootstrap admin unless a user with that email exists
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		dlog.Warn().Msg("Step3.1: no bootstrap admin configured")
		return nil
	}
	if _, err := s.userByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	if _, err := s.CreateUser(ctx, NewUser{Name: name, Email: email, Password: password, Role: RoleAdmin}); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	dlog.Info().Str("email", email).Msg("Step3.1: bootstrap admin created")
	return nil
}

// Login checks the password and returns a signed token for the user
func (s *Service) Login(ctx context.Context, email, password string) (token string, user User, err error) {
	rec, err := s.userByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", User{}, ErrUnauthorized
	} else if err != nil {
		return "", User{}, err
	}
	if !rec.IsActive {
		return "", User{}, ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return "", User{}, ErrUnauthorized
	}
	now := s.now()
	claims := Claims{
		Email: rec.Email, Name: rec.Name, Role: rec.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	return token, rec.User, err
}

// ParseToken verifies a token issued by Login
func (s *Service) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *Service) CurrentUser(ctx context.Context, id string) (User, error) {
	rec, err := get(ctx, s.users, id)
	return rec.User, err
}

func (s *Service) Users(ctx context.Context) ([]User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, len(all))
	for i := range all {
		out[i] = all[i].User
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (User, error) {
	if err := check(&p); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := get(ctx, s.users, id)
	if err != nil {
		return User{}, err
	}
	if p.Name = strings.TrimSpace(p.Name); p.Name != "" {
		rec.Name = p.Name
	}
	rec.Avatar, rec.Website = p.Avatar, p.Website
	return rec.User, s.users.Put(ctx, id, rec)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if _, err := get(ctx, s.users, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
