package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/truthlens/newsroom/kvstore"
)

const (
	InternshipPending  = "pending"
	InternshipReviewed = "reviewed"
	InternshipAccepted = "accepted"
	InternshipRejected = "rejected"
)

type InternshipApplication struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName" validate:"required"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone"`
	University  string    `json:"university"`
	Department  string    `json:"department"`
	Portfolio   string    `json:"portfolio" validate:"omitempty,url"`
	CoverLetter string    `json:"coverLetter"`
	CVFileName  string    `json:"cvFileName"`
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}

// SubmitInternship files an application according to the internship config
func (s *Service) SubmitInternship(ctx context.Context, a InternshipApplication) (InternshipApplication, error) {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Portfolio = strings.TrimSpace(a.Portfolio)
	if err := check(&a); err != nil {
		return a, err
	}
	cfg, err := s.settings.InternshipConfig(ctx)
	if err != nil {
		return a, err
	}
	if !cfg.AcceptingApplications {
		return a, fmt.Errorf("%w: internship applications are closed", ErrClosed)
	}
	if cfg.RequirePortfolio && a.Portfolio == "" {
		return a, fmt.Errorf("%w: portfolio is required", ErrInvalid)
	}
	if a.Department != "" && len(cfg.Departments) > 0 && !contains(cfg.Departments, a.Department) {
		return a, fmt.Errorf("%w: unknown department %q", ErrInvalid, a.Department)
	}
	a.ID = kvstore.NewID()
	a.Status = InternshipPending
	a.SubmittedAt = s.now().UTC()
	return a, s.internships.Put(ctx, a.ID, a)
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Internships lists applications newest first
func (s *Service) Internships(ctx context.Context) ([]InternshipApplication, error) {
	all, err := s.internships.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })
	return all, nil
}

func (s *Service) UpdateInternshipStatus(ctx context.Context, id, status string) (InternshipApplication, error) {
	switch status {
	case InternshipPending, InternshipReviewed, InternshipAccepted, InternshipRejected:
	default:
		return InternshipApplication{}, fmt.Errorf("%w: internship status %q", ErrInvalid, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := get(ctx, s.internships, id)
	if err != nil {
		return a, err
	}
	a.Status = status
	return a, s.internships.Put(ctx, id, a)
}

func (s *Service) DeleteInternship(ctx context.Context, id string) error {
	if _, err := get(ctx, s.internships, id); err != nil {
		return err
	}
	return s.internships.Delete(ctx, id)
}
