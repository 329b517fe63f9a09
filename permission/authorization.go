package permission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/kvstore"
)

// operations guarded by role
const (
	Articles     = "articles"
	Comments     = "comments"
	Jobs         = "jobs"
	Team         = "team"
	Settings     = "settings"
	Applications = "applications"
	Internships  = "internships"
	Subscribers  = "subscribers"
	Restore      = "restore"
	Users        = "users"
	Store        = "store"
)

// Operations lists every operation a role can be granted
var Operations = []string{Articles, Comments, Jobs, Team, Settings, Applications, Internships, Subscribers, Restore, Users, Store}

var ErrInvalidOverride = errors.New("invalid permission override")

const (
	RoleAdmin    = "admin"
	RoleEditor   = "editor"
	RoleReporter = "reporter"
)

// TableKey is the store document holding overrides, e.g. {"editor":{"users":true,"jobs":false}}
const TableKey = "_permissions"

var defaultTable = map[string][]string{
	RoleEditor:   {Articles, Comments, Jobs, Team, Settings, Applications, Internships, Subscribers},
	RoleReporter: {Articles},
}

var (
	tableMu   sync.RWMutex
	permitmap cmap.ConcurrentMap[string, bool] = buildPermitMap(nil)
)

func permitKey(role, operation string) string { return role + "::" + operation }

func buildPermitMap(overrides map[string]map[string]bool) cmap.ConcurrentMap[string, bool] {
	m := cmap.New[bool]()
	for role, ops := range defaultTable {
		for _, op := range ops {
			m.Set(permitKey(role, op)+"::on", true)
		}
	}
	for role, ops := range overrides {
		for op, allowed := range ops {
			if allowed {
				m.Remove(permitKey(role, op) + "::off")
				m.Set(permitKey(role, op)+"::on", true)
			} else {
				m.Remove(permitKey(role, op) + "::on")
				m.Set(permitKey(role, op)+"::off", true)
			}
		}
	}
	return m
}

// IsPermitted reports whether role may perform operation. Admin may do everything.
func IsPermitted(role, operation string) (ok bool) {
	if role == RoleAdmin {
		return true
	}
	tableMu.RLock()
	table := permitmap
	tableMu.RUnlock()
	//blacklist first
	if _, ok := table.Get(permitKey(role, operation) + "::off"); ok {
		return false
	}
	_, ok = table.Get(permitKey(role, operation) + "::on")
	return ok
}

var (
	loadMu              sync.Mutex
	ConfigurationLoaded bool = false
)

// LoadPermissionTable rebuilds the table from the defaults and the overrides stored under TableKey
func LoadPermissionTable(ctx context.Context, store kvstore.Store) error {
	loadMu.Lock()
	defer loadMu.Unlock()
	var overrides map[string]map[string]bool
	raw, err := store.Get(ctx, TableKey)
	if err == nil {
		err = json.Unmarshal(raw, &overrides)
	} else if errors.Is(err, kvstore.ErrNotFound) {
		err = nil
	}
	// show log if it is the first time to load
	for ; !ConfigurationLoaded; ConfigurationLoaded = true {
		if err != nil {
			dlog.Warn().AnErr("Step2.1: permission overrides loading failed", err).Send()
		} else {
			dlog.Info().Int("roles", len(overrides)).Msg("Step2.2: permission table loaded")
		}
	}
	if err != nil {
		return err
	}
	table := buildPermitMap(overrides)
	tableMu.Lock()
	permitmap = table
	tableMu.Unlock()
	return nil
}

// KeepLoading reloads the table every interval until ctx is done
func KeepLoading(ctx context.Context, store kvstore.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := LoadPermissionTable(ctx, store); err != nil {
				dlog.Warn().Err(err).Msg("permission table reload failed, keeping previous table")
			}
		}
	}
}

// Overrides returns the overrides document, empty when none is stored
func Overrides(ctx context.Context, store kvstore.Store) (map[string]map[string]bool, error) {
	overrides := map[string]map[string]bool{}
	raw, err := store.Get(ctx, TableKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return overrides, nil
	} else if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOverride, err)
	}
	return overrides, nil
}

// SaveOverrides validates and stores overrides, then rebuilds the table from them.
// Only editor and reporter can be overridden, and only with known operations.
func SaveOverrides(ctx context.Context, store kvstore.Store, overrides map[string]map[string]bool) error {
	for role, ops := range overrides {
		if role != RoleEditor && role != RoleReporter {
			return fmt.Errorf("%w: role %q", ErrInvalidOverride, role)
		}
		for op := range ops {
			if !slices.Contains(Operations, op) {
				return fmt.Errorf("%w: operation %q", ErrInvalidOverride, op)
			}
		}
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return err
	}
	if err = store.Set(ctx, TableKey, raw); err != nil {
		return err
	}
	return LoadPermissionTable(ctx, store)
}

// Effective lists the operations each non admin role may perform
func Effective() map[string][]string {
	out := map[string][]string{}
	for _, role := range []string{RoleEditor, RoleReporter} {
		out[role] = []string{}
		for _, op := range Operations {
			if IsPermitted(role, op) {
				out[role] = append(out[role], op)
			}
		}
	}
	return out
}
