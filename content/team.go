package content

import (
	"context"
	"sort"
	"strings"

	"github.com/truthlens/newsroom/kvstore"
)

const EventTeamUpdated = "teamMembersUpdated"

type TeamMember struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Email    string `json:"email" validate:"omitempty,email"`
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Order    int    `json:"order"`
}

// TeamMembers lists the team by display order
func (s *Service) TeamMembers(ctx context.Context) ([]TeamMember, error) {
	all, err := s.team.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Order != all[j].Order {
			return all[i].Order < all[j].Order
		}
		return all[i].Name < all[j].Name
	})
	return all, nil
}

// isNewMember reports ids the console hands out before a record is stored
func isNewMember(id string) bool {
	return id == "" || strings.HasPrefix(id, "temp")
}

func (s *Service) upsertTeamMember(ctx context.Context, m TeamMember) (TeamMember, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := check(&m); err != nil {
		return m, err
	}
	if isNewMember(m.ID) {
		m.ID = kvstore.NewID()
	} else if _, err := get(ctx, s.team, m.ID); err != nil {
		return m, err
	}
	return m, s.team.Put(ctx, m.ID, m)
}

// UpsertTeamMember inserts members with an empty or temporary id and updates the rest
func (s *Service) UpsertTeamMember(ctx context.Context, m TeamMember) (TeamMember, error) {
	m, err := s.upsertTeamMember(ctx, m)
	if err == nil {
		s.publish(EventTeamUpdated, m)
	}
	return m, err
}

// SaveTeamMembers upserts every member, stopping at the first failure
func (s *Service) SaveTeamMembers(ctx context.Context, members []TeamMember) ([]TeamMember, error) {
	saved := make([]TeamMember, 0, len(members))
	for _, m := range members {
		m, err := s.upsertTeamMember(ctx, m)
		if err != nil {
			return saved, err
		}
		saved = append(saved, m)
	}
	s.publish(EventTeamUpdated, saved)
	return saved, nil
}

func (s *Service) DeleteTeamMember(ctx context.Context, id string) error {
	if _, err := get(ctx, s.team, id); err != nil {
		return err
	}
	if err := s.team.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventTeamUpdated, id)
	return nil
}

// TeamMemberByName matches names ignoring case and surrounding space
func (s *Service) TeamMemberByName(ctx context.Context, name string) (TeamMember, error) {
	all, err := s.team.List(ctx)
	if err != nil {
		return TeamMember{}, err
	}
	want := strings.TrimSpace(name)
	for _, m := range all {
		if strings.EqualFold(strings.TrimSpace(m.Name), want) {
			return m, nil
		}
	}
	return TeamMember{}, notFound("team member", name)
}
