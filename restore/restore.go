// Package restore loads seed content into an empty or existing newsroom:
// authors become team members, articles are upserted by slug, jobs are
// inserted and site settings are written.
package restore

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/dlog"
	"github.com/truthlens/newsroom/settings"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type Author struct {
	Ref    string `yaml:"ref"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Avatar string `yaml:"avatar"`
	Bio    string `yaml:"bio"`
	Role   string `yaml:"role"`
}

type Article struct {
	Title       string    `yaml:"title"`
	Slug        string    `yaml:"slug"`
	Excerpt     string    `yaml:"excerpt"`
	Content     string    `yaml:"content"`
	Category    string    `yaml:"category"`
	Author      string    `yaml:"author"`
	Image       string    `yaml:"image"`
	Video       string    `yaml:"video"`
	Tags        []string  `yaml:"tags"`
	Breaking    bool      `yaml:"breaking"`
	Featured    bool      `yaml:"featured"`
	Draft       bool      `yaml:"draft"`
	PublishedAt time.Time `yaml:"publishedAt"`
	CreatedAt   time.Time `yaml:"createdAt"`
	Views       int64     `yaml:"views"`
}

type Job struct {
	Title        string    `yaml:"title"`
	Department   string    `yaml:"department"`
	Type         string    `yaml:"type"`
	Description  string    `yaml:"description"`
	Requirements []string  `yaml:"requirements"`
	Deadline     time.Time `yaml:"deadline"`
	Open         bool      `yaml:"open"`
	CreatedAt    time.Time `yaml:"createdAt"`
}

type Social struct {
	Platform string `yaml:"platform"`
	URL      string `yaml:"url"`
}

type Seed struct {
	Authors  []Author               `yaml:"authors"`
	Articles []Article              `yaml:"articles"`
	Jobs     []Job                  `yaml:"jobs"`
	Site     map[string]interface{} `yaml:"site"`
	Social   []Social               `yaml:"social"`
}

func LoadSeed(r io.Reader) (*Seed, error) {
	seed := &Seed{}
	if err := yaml.NewDecoder(r).Decode(seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return seed, nil
}

// DefaultSeed is the seed bundled with the binary
func DefaultSeed() (*Seed, error) {
	return LoadSeed(bytes.NewReader(defaultSeed))
}

type Report struct {
	AuthorsCreated  int      `json:"authorsCreated"`
	AuthorsFound    int      `json:"authorsFound"`
	ArticlesCreated int      `json:"articlesCreated"`
	ArticlesUpdated int      `json:"articlesUpdated"`
	JobsCreated     int      `json:"jobsCreated"`
	Failures        int      `json:"failures"`
	Log             []string `json:"log"`
}

func (r *Report) logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	r.Log = append(r.Log, line)
	dlog.Info().Msg("restore: " + line)
}

type Restorer struct {
	Content  *content.Service
	Settings *settings.Service
}

// recordError is a failure of one seed record, which is logged and skipped
func recordError(err error) bool {
	return errors.Is(err, content.ErrInvalid) || errors.Is(err, content.ErrConflict) ||
		errors.Is(err, content.ErrNotFound) || errors.Is(err, settings.ErrInvalid)
}

// skip records a per-record failure, or returns err when it must abort the run
func (r *Report) skip(what string, err error) error {
	if !recordError(err) {
		r.logf("CRITICAL ERROR: %s: %v", what, err)
		return err
	}
	r.Failures++
	r.logf("Error restoring %s: %v", what, err)
	return nil
}

func (rs *Restorer) Run(ctx context.Context, seed *Seed) (*Report, error) {
	rep := &Report{Log: []string{}}

	rep.logf("Restoring authors to team members...")
	authorIDs := map[string]content.TeamMember{}
	for i, a := range seed.Authors {
		m, err := rs.Content.TeamMemberByName(ctx, a.Name)
		if err == nil {
			rep.AuthorsFound++
			rep.logf("Found existing author: %s", a.Name)
		} else if errors.Is(err, content.ErrNotFound) {
			m, err = rs.Content.UpsertTeamMember(ctx, content.TeamMember{
				Name: a.Name, Role: a.Role, Bio: a.Bio, Image: a.Avatar, Email: a.Email, Order: i + 1,
			})
			if err != nil {
				if err = rep.skip("author "+a.Name, err); err != nil {
					return rep, err
				}
				continue
			}
			rep.AuthorsCreated++
			rep.logf("Created author: %s", a.Name)
		} else {
			return rep, rep.skip("author "+a.Name, err)
		}
		authorIDs[a.Ref] = m
	}

	rep.logf("Restoring articles...")
	for _, a := range seed.Articles {
		art := content.Article{
			Title: a.Title, Slug: a.Slug, Excerpt: a.Excerpt, Content: a.Content, Category: a.Category,
			FeaturedImage: a.Image, VideoURL: a.Video, Tags: a.Tags, IsBreaking: a.Breaking, IsFeatured: a.Featured,
			Status: content.StatusPublished, PublishedAt: a.PublishedAt.UTC(), CreatedAt: a.CreatedAt.UTC(), Views: a.Views,
		}
		if a.Draft {
			art.Status = content.StatusDraft
		}
		if art.Content == "" {
			art.Content = a.Excerpt
		}
		if m, ok := authorIDs[a.Author]; ok {
			art.AuthorID, art.AuthorName = m.ID, m.Name
		}
		_, created, err := rs.Content.UpsertArticleBySlug(ctx, art)
		if err != nil {
			if err = rep.skip("article "+a.Title, err); err != nil {
				return rep, err
			}
			continue
		}
		if created {
			rep.ArticlesCreated++
		} else {
			rep.ArticlesUpdated++
		}
		rep.logf("Restored article: %s", a.Title)
	}

	rep.logf("Restoring jobs...")
	for _, j := range seed.Jobs {
		_, err := rs.Content.ImportJob(ctx, content.Job{
			Title: j.Title, Department: j.Department, Type: j.Type, Description: j.Description,
			Requirements: j.Requirements, Deadline: j.Deadline.UTC(), IsOpen: j.Open, CreatedAt: j.CreatedAt,
		})
		if err != nil {
			if err = rep.skip("job "+j.Title, err); err != nil {
				return rep, err
			}
			continue
		}
		rep.JobsCreated++
		rep.logf("Restored job: %s", j.Title)
	}

	rep.logf("Updating site settings...")
	if err := rs.restoreSite(ctx, seed); err != nil {
		if err = rep.skip("site settings", err); err != nil {
			return rep, err
		}
	} else {
		rep.logf("Site settings updated.")
	}
	rep.logf("DONE.")
	return rep, nil
}

// restoreSite lays the seed's site fields over the current site settings
func (rs *Restorer) restoreSite(ctx context.Context, seed *Seed) error {
	if len(seed.Site) > 0 {
		current, err := rs.Settings.Site(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(current)
		if err != nil {
			return err
		}
		merged := map[string]interface{}{}
		if err = json.Unmarshal(raw, &merged); err != nil {
			return err
		}
		for k, v := range seed.Site {
			merged[k] = v
		}
		if raw, err = json.Marshal(merged); err != nil {
			return err
		}
		if _, err = rs.Settings.Put(ctx, settings.KeySite, raw); err != nil {
			return err
		}
	}
	if len(seed.Social) > 0 {
		links := make([]settings.SocialLink, len(seed.Social))
		for i, s := range seed.Social {
			links[i] = settings.SocialLink{Platform: s.Platform, URL: s.URL}
		}
		return rs.Settings.SaveSocial(ctx, links)
	}
	return nil
}
