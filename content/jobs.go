package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/truthlens/newsroom/kvstore"
)

type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title" validate:"required"`
	Department   string    `json:"department"`
	Type         string    `json:"type" validate:"omitempty,oneof=full-time part-time internship freelance volunteer"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Deadline     time.Time `json:"deadline"`
	IsOpen       bool      `json:"isOpen"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Open reports whether the job takes applications at now
func (j *Job) Open(now time.Time) bool {
	return j.IsOpen && (j.Deadline.IsZero() || now.Before(j.Deadline))
}

type JobApplication struct {
	ID           string    `json:"id"`
	JobID        string    `json:"jobId" validate:"required"`
	FullName     string    `json:"fullName" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone"`
	CoverLetter  string    `json:"coverLetter"`
	CVURL        string    `json:"cvUrl" validate:"omitempty,url"`
	PhotoURL     string    `json:"photoUrl,omitempty" validate:"omitempty,url"`
	PortfolioURL string    `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// Jobs lists jobs newest first; openOnly keeps those still taking applications
func (s *Service) Jobs(ctx context.Context, openOnly bool) ([]Job, error) {
	all, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := all[:0]
	for i := range all {
		if !openOnly || all[i].Open(now) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) Job(ctx context.Context, id string) (Job, error) {
	return get(ctx, s.jobs, id)
}

// SaveJob inserts j when it has no id, otherwise replaces the stored job keeping createdAt
func (s *Service) SaveJob(ctx context.Context, j Job) (Job, error) {
	j.Title = strings.TrimSpace(j.Title)
	if err := check(&j); err != nil {
		return j, err
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.ID == "" {
		j.ID = kvstore.NewID()
		j.CreatedAt = s.now().UTC()
	} else {
		existing, err := get(ctx, s.jobs, j.ID)
		if err != nil {
			return j, err
		}
		j.CreatedAt = existing.CreatedAt
	}
	return j, s.jobs.Put(ctx, j.ID, j)
}

// ImportJob inserts j as a new job, keeping its createdAt when set
func (s *Service) ImportJob(ctx context.Context, j Job) (Job, error) {
	createdAt := j.CreatedAt
	j.ID = ""
	j, err := s.SaveJob(ctx, j)
	if err != nil || createdAt.IsZero() {
		return j, err
	}
	j.CreatedAt = createdAt.UTC()
	return j, s.jobs.Put(ctx, j.ID, j)
}

func (s *Service) DeleteJob(ctx context.Context, id string) error {
	if _, err := get(ctx, s.jobs, id); err != nil {
		return err
	}
	return s.jobs.Delete(ctx, id)
}

const (
	ApplicationPending     = "pending"
	ApplicationReviewed    = "reviewed"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
)

// SubmitApplication files an application for an open job
func (s *Service) SubmitApplication(ctx context.Context, a JobApplication) (JobApplication, error) {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if err := check(&a); err != nil {
		return a, err
	}
	job, err := get(ctx, s.jobs, a.JobID)
	if err != nil {
		return a, err
	}
	if !job.Open(s.now()) {
		return a, fmt.Errorf("%w: job %s is closed", ErrClosed, job.ID)
	}
	a.ID = kvstore.NewID()
	a.Status = ApplicationPending
	a.SubmittedAt = s.now().UTC()
	return a, s.applications.Put(ctx, a.ID, a)
}

// Applications lists applications newest first, for one job when jobID is set
func (s *Service) Applications(ctx context.Context, jobID string) ([]JobApplication, error) {
	all, err := s.applications.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, a := range all {
		if jobID == "" || a.JobID == jobID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *Service) UpdateApplicationStatus(ctx context.Context, id, status string) (JobApplication, error) {
	switch status {
	case ApplicationPending, ApplicationReviewed, ApplicationShortlisted, ApplicationRejected:
	default:
		return JobApplication{}, fmt.Errorf("%w: application status %q", ErrInvalid, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := get(ctx, s.applications, id)
	if err != nil {
		return a, err
	}
	a.Status = status
	return a, s.applications.Put(ctx, id, a)
}
