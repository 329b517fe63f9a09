// Package homepage assembles the public homepage from the settings documents
// and the published articles.
package homepage

import (
	"context"
	"errors"
	"sort"

	"github.com/truthlens/newsroom/content"
	"github.com/truthlens/newsroom/settings"
)

var ErrMaintenance = errors.New("site is in maintenance mode")

type Section struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Order    int                    `json:"order"`
	Category string                 `json:"category,omitempty"`
	Articles []content.Article      `json:"articles"`
	Comments []content.AdminComment `json:"comments,omitempty"`
}

type Page struct {
	Site       settings.SiteSettings `json:"site"`
	Menu       []settings.MenuItem   `json:"menu"`
	Social     []settings.SocialLink `json:"social"`
	Breaking   []content.Article     `json:"breaking"`
	Hero       []content.Article     `json:"hero"`
	HeroSide   []content.Article     `json:"heroSide"`
	AutoSwipe  AutoSwipe             `json:"autoSwipe"`
	Sections   []Section             `json:"sections"`
	Internship bool                  `json:"internshipBanner"`
}

type AutoSwipe struct {
	Breaking   bool `json:"breaking"`
	Hero       bool `json:"hero"`
	IntervalMs int  `json:"intervalMs"`
}

type Builder struct {
	Settings *settings.Service
	Content  *content.Service
}

// published holds the published articles newest first with an id index
type published struct {
	list []content.Article
	byID map[string]*content.Article
}

func (p *published) pick(ids []string, max int) []content.Article {
	out := []content.Article{}
	for _, id := range ids {
		if len(out) >= max {
			break
		}
		if a, ok := p.byID[id]; ok {
			out = append(out, *a)
		}
	}
	return out
}

func (p *published) filter(max int, keep func(a *content.Article) bool) []content.Article {
	out := []content.Article{}
	for i := range p.list {
		if len(out) >= max {
			break
		}
		if keep(&p.list[i]) {
			out = append(out, p.list[i])
		}
	}
	return out
}

func (p *published) trending(max int) []content.Article {
	byViews := append([]content.Article(nil), p.list...)
	sort.SliceStable(byViews, func(i, j int) bool { return byViews[i].Views > byViews[j].Views })
	if len(byViews) > max {
		byViews = byViews[:max]
	}
	return byViews
}

func (b *Builder) loadPublished(ctx context.Context) (*published, error) {
	list, err := b.Content.Articles(ctx, content.ArticleFilter{Status: content.StatusPublished})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].PublishedAt.After(list[j].PublishedAt) })
	p := &published{list: list, byID: make(map[string]*content.Article, len(list))}
	for i := range list {
		p.byID[list[i].ID] = &list[i]
	}
	return p, nil
}

func all(*content.Article) bool { return true }

// Build composes the homepage. It fails with ErrMaintenance while the site is in maintenance mode.
func (b *Builder) Build(ctx context.Context) (*Page, error) {
	site, err := b.Settings.Site(ctx)
	if err != nil {
		return nil, err
	}
	if site.MaintenanceMode {
		return nil, ErrMaintenance
	}
	page := &Page{Site: site}
	if page.Menu, err = b.Settings.VisibleMenu(ctx); err != nil {
		return nil, err
	}
	if page.Social, err = b.Settings.Social(ctx); err != nil {
		return nil, err
	}
	featured, err := b.Settings.Featured(ctx)
	if err != nil {
		return nil, err
	}
	editorial, err := b.Settings.Editorial(ctx)
	if err != nil {
		return nil, err
	}
	internship, err := b.Settings.InternshipConfig(ctx)
	if err != nil {
		return nil, err
	}
	sections, err := b.Settings.Sections(ctx)
	if err != nil {
		return nil, err
	}
	pub, err := b.loadPublished(ctx)
	if err != nil {
		return nil, err
	}

	page.AutoSwipe = AutoSwipe{Breaking: featured.BreakingAutoSwipe, Hero: featured.HeroAutoSwipe, IntervalMs: featured.AutoSwipeInterval}
	page.Breaking = breaking(pub, featured.BreakingNewsIDs, featured.MaxBreakingNews)
	page.Hero = hero(pub, featured.HeroFeaturedIDs, featured.MaxHeroArticles)
	page.HeroSide = pub.pick(featured.HeroSideArticleIDs, len(featured.HeroSideArticleIDs))

	page.Sections = []Section{}
	for _, sec := range sections {
		if !sec.Enabled || !sec.ShowOnHomepage {
			continue
		}
		out := Section{ID: sec.ID, Name: sec.Name, Order: sec.Order, Category: sec.Category, Articles: []content.Article{}}
		switch {
		case sec.ID == "internship-banner":
			if !internship.ShowBannerOnHomepage {
				continue
			}
			page.Internship = internship.AcceptingApplications
		case sec.ID == "comments":
			if !editorial.ShowCommentsSection {
				continue
			}
			max := sec.MaxArticles
			if editorial.MaxComments < max {
				max = editorial.MaxComments
			}
			if out.Comments, err = b.recentComments(ctx, max); err != nil {
				return nil, err
			}
		case sec.ID == "editorial" && !editorial.ShowEditorialSection:
			continue
		case sec.ID == "editorial" && len(sec.SelectedArticleIDs) == 0 && len(editorial.EditorialIDs) > 0:
			max := sec.MaxArticles
			if editorial.MaxEditorials < max {
				max = editorial.MaxEditorials
			}
			out.Articles = pub.pick(editorial.EditorialIDs, max)
		default:
			out.Articles = resolve(pub, sec)
		}
		page.Sections = append(page.Sections, out)
	}
	return page, nil
}

func breaking(pub *published, ids []string, max int) []content.Article {
	if len(ids) > 0 {
		return pub.pick(ids, max)
	}
	return pub.filter(max, func(a *content.Article) bool { return a.IsBreaking })
}

func hero(pub *published, ids []string, max int) []content.Article {
	if len(ids) > 0 {
		return pub.pick(ids, max)
	}
	return pub.filter(max, func(a *content.Article) bool { return a.IsFeatured })
}

// resolve picks the articles of a section: its explicit selection, or when empty
// the section's category or the rule of a built in section
func resolve(pub *published, sec settings.Section) []content.Article {
	max := sec.MaxArticles
	if len(sec.SelectedArticleIDs) > 0 {
		return pub.pick(sec.SelectedArticleIDs, max)
	}
	if sec.Category != "" {
		return pub.filter(max, func(a *content.Article) bool { return a.Category == sec.Category })
	}
	switch sec.ID {
	case "breaking-news":
		return breaking(pub, nil, max)
	case "hero":
		return hero(pub, nil, max)
	case "trending":
		return pub.trending(max)
	case "latest-stories":
		return pub.filter(max, all)
	case "video-stories":
		return pub.filter(max, func(a *content.Article) bool { return a.VideoURL != "" })
	}
	return []content.Article{}
}

func (b *Builder) recentComments(ctx context.Context, max int) ([]content.AdminComment, error) {
	list, err := b.Content.AllComments(ctx)
	if err != nil {
		return nil, err
	}
	out := []content.AdminComment{}
	for _, c := range list {
		if len(out) >= max {
			break
		}
		if c.Status == content.CommentApproved {
			out = append(out, c)
		}
	}
	return out, nil
}
