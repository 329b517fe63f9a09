package httpserve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/permission"
)

// ParseJwtClaim reads the bearer token, using the claims cache before verifying the signature
func (s *Server) ParseJwtClaim(r *http.Request) (claims *content.Claims, err error) {
	var ok bool
	jwtStr := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if len(jwtStr) == 0 {
		return nil, ErrNoToken
	}
	if claims, ok = s.claims.Get(jwtStr); ok {
		if expired(claims, time.Now()) {
			s.claims.Remove(jwtStr)
			return nil, fmt.Errorf("%w: token is expired", content.ErrUnauthorized)
		}
		return claims, nil
	}
	if claims, err = s.Content.ParseToken(jwtStr); err != nil {
		return nil, err
	}
	s.claims.Set(jwtStr, claims)
	return claims, nil
}

// Authorize returns the caller's claims when their role may perform operation.
// An empty operation only requires a valid token. The account named by the token
// must still exist and be active; its stored role is the one checked.
func (s *Server) Authorize(r *http.Request, operation string) (*content.Claims, error) {
	claims, err := s.ParseJwtClaim(r)
	if err != nil {
		return nil, err
	}
	user, err := s.Content.CurrentUser(r.Context(), claims.Subject)
	if errors.Is(err, content.ErrNotFound) {
		s.forgetUser(claims.Subject)
		return nil, fmt.Errorf("%w: account no longer exists", content.ErrUnauthorized)
	} else if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", content.ErrUnauthorized)
	}
	current := *claims
	current.Role, current.Name, current.Email = user.Role, user.Name, user.Email
	if operation != "" && !permission.IsPermitted(current.Role, operation) {
		return nil, fmt.Errorf("%w: %s may not manage %s", ErrOperationNotPermited, current.Role, operation)
	}
	return &current, nil
}

// forgetUser drops every cached token issued to userID
func (s *Server) forgetUser(userID string) {
	for item := range s.claims.IterBuffered() {
		if item.Val.Subject == userID {
			s.claims.Remove(item.Key)
		}
	}
}

// pruneClaims drops cached tokens that expired before now and returns how many were dropped
func (s *Server) pruneClaims(now time.Time) (dropped int) {
	for item := range s.claims.IterBuffered() {
		if expired(item.Val, now) {
			s.claims.Remove(item.Key)
			dropped++
		}
	}
	return dropped
}

// KeepPruningClaims removes expired tokens from the claims cache every interval until ctx is done
func (s *Server) KeepPruningClaims(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.pruneClaims(now); n > 0 {
				dlog.Debug().Int("dropped", n).Msg("expired tokens pruned")
			}
		}
	}
}

func expired(claims *content.Claims, now time.Time) bool {
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(now)
}
