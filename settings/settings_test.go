package settings

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truthlens/newsroom/kvstore"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func newService(t *testing.T) (*Service, kvstore.Store, *recorder) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	rec := &recorder{}
	return New(store, rec), store, rec
}

func TestDefaultsWhenNothingStored(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newService(t)

	f, err := s.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, f.MaxBreakingNews)
	assert.Equal(t, 5, f.MaxHeroArticles)
	assert.Equal(t, 5000, f.AutoSwipeInterval)
	assert.NotNil(t, f.BreakingNewsIDs)

	site, err := s.Site(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TruthLens", site.SiteName)
	assert.Equal(t, 10, site.ArticlesPerPage)

	ed, err := s.Editorial(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, ed.MaxEditorials)
	assert.Equal(t, 4, ed.MaxComments)

	secs, err := s.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, secs, 11)
	assert.Equal(t, "breaking-news", secs[0].ID)
	assert.Equal(t, "editorial", secs[10].ID)
	assert.Equal(t, "editorial", secs[10].Category)
}

func TestWeaklyTypedDocumentMergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newService(t)
	require.NoError(t, store.Set(ctx, KeySite, []byte(`{"siteName":"Lens","articlesPerPage":"25","maintenanceMode":"true"}`)))

	site, err := s.Site(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lens", site.SiteName)
	assert.Equal(t, 25, site.ArticlesPerPage)
	assert.True(t, site.MaintenanceMode)
	assert.Equal(t, "Authentic Stories. Unbiased Voices.", site.Tagline)
}

func TestUnreadableDocumentFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newService(t)
	require.NoError(t, store.Set(ctx, KeySite, []byte(`{"articlesPerPage":"many"}`)))
	site, err := s.Site(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, site.ArticlesPerPage)
}

func TestInternshipDepartmentsReplacedNotMerged(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newService(t)
	require.NoError(t, store.Set(ctx, KeyInternshipConfig, []byte(`{"departments":["digital"]}`)))
	cfg, err := s.InternshipConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"digital"}, cfg.Departments)
	assert.True(t, cfg.AcceptingApplications)
}

func TestSectionsMergeByID(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newService(t)
	require.NoError(t, store.Set(ctx, KeySections, []byte(`[
		{"id":"hero","order":20,"maxArticles":"3","selectedArticleIds":["a"]},
		{"id":"ghost","order":1,"name":"Gone"}
	]`)))

	secs, err := s.Sections(ctx)
	require.NoError(t, err)
	require.Len(t, secs, 11)
	last := secs[len(secs)-1]
	assert.Equal(t, "hero", last.ID)
	assert.Equal(t, 3, last.MaxArticles)
	assert.Equal(t, []string{"a"}, last.SelectedArticleIDs)
	assert.Equal(t, "Hero Section", last.Name)
	for _, sec := range secs {
		assert.NotEqual(t, "ghost", sec.ID)
	}
}

func TestSaveSectionsKeepsSectionRules(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newService(t)
	secs, err := s.Sections(ctx)
	require.NoError(t, err)
	with := func(id string, fn func(sec *Section)) []Section {
		out := make([]Section, len(secs))
		copy(out, secs)
		for i := range out {
			if out[i].ID == id {
				fn(&out[i])
			}
		}
		return out
	}

	err = s.SaveSections(ctx, with("internship-banner", func(sec *Section) {
		sec.MaxArticles, sec.SelectedArticleIDs = 3, []string{"x"}
	}))
	assert.ErrorIs(t, err, ErrStaticSection)

	err = s.SaveSections(ctx, with("trending", func(sec *Section) { sec.MaxArticles = 0 }))
	assert.ErrorIs(t, err, ErrInvalid)

	err = s.SaveSections(ctx, with("trending", func(sec *Section) { sec.SelectedArticleIDs = []string{"x", "x"} }))
	assert.ErrorIs(t, err, ErrDuplicate)

	err = s.SaveSections(ctx, with("trending", func(sec *Section) { sec.SelectedArticleIDs = []string{""} }))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = store.Get(ctx, KeySections)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, s.SaveSections(ctx, with("trending", func(sec *Section) { sec.SelectedArticleIDs = []string{"x", "y"} })))
	sec, err := s.Section(ctx, "trending")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, sec.SelectedArticleIDs)
	_, err = s.AddSectionArticle(ctx, "internship-banner", "x")
	assert.ErrorIs(t, err, ErrStaticSection)
}

func TestStoredStaticSectionStaysStatic(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newService(t)
	require.NoError(t, store.Set(ctx, KeySections, []byte(`[{"id":"internship-banner","maxArticles":3,"selectedArticleIds":["x","x"]}]`)))

	sec, err := s.Section(ctx, "internship-banner")
	require.NoError(t, err)
	assert.True(t, sec.Static())
	assert.Empty(t, sec.SelectedArticleIDs)
	_, err = s.AddSectionArticle(ctx, "internship-banner", "x")
	assert.ErrorIs(t, err, ErrStaticSection)
}

func TestSectionArticleBinding(t *testing.T) {
	ctx := context.Background()
	s, _, rec := newService(t)

	_, err := s.SetSectionMax(ctx, "trending", 2)
	require.NoError(t, err)
	_, err = s.AddSectionArticle(ctx, "trending", "a1")
	require.NoError(t, err)
	_, err = s.AddSectionArticle(ctx, "trending", "a1")
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = s.AddSectionArticle(ctx, "trending", "a2")
	require.NoError(t, err)
	_, err = s.AddSectionArticle(ctx, "trending", "a3")
	assert.ErrorIs(t, err, ErrCapacity)

	_, err = s.AddSectionArticle(ctx, "internship-banner", "a1")
	assert.ErrorIs(t, err, ErrStaticSection)
	_, err = s.SetSectionMax(ctx, "internship-banner", 3)
	assert.ErrorIs(t, err, ErrStaticSection)
	_, err = s.SetSectionMax(ctx, "trending", 11)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.AddSectionArticle(ctx, "nope", "a1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ToggleSection(ctx, "sports")
	require.NoError(t, err)
	_, err = s.AddSectionArticle(ctx, "sports", "a1")
	assert.ErrorIs(t, err, ErrSectionDisabled)

	secs, err := s.SetSectionMax(ctx, "trending", 1)
	require.NoError(t, err)
	for _, sec := range secs {
		if sec.ID == "trending" {
			assert.Equal(t, []string{"a1"}, sec.SelectedArticleIDs)
		}
	}

	secs, err = s.RemoveSectionArticle(ctx, "trending", "a1")
	require.NoError(t, err)
	sec, err := s.Section(ctx, "trending")
	require.NoError(t, err)
	assert.Empty(t, sec.SelectedArticleIDs)
	assert.Len(t, secs, 11)

	assert.Contains(t, rec.events, "sectionsSettingsUpdated")
}

func TestToggleSectionHomepage(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newService(t)
	_, err := s.ToggleSectionHomepage(ctx, "comments")
	require.NoError(t, err)
	sec, err := s.Section(ctx, "comments")
	require.NoError(t, err)
	assert.False(t, sec.ShowOnHomepage)
	assert.True(t, sec.Enabled)
}

func TestReorderSections(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newService(t)
	secs, err := s.Sections(ctx)
	require.NoError(t, err)
	ids := make([]string, len(secs))
	for i, sec := range secs {
		ids[len(secs)-1-i] = sec.ID
	}

	got, err := s.ReorderSections(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, "editorial", got[0].ID)
	assert.Equal(t, 1, got[0].Order)
	assert.Equal(t, 11, got[10].Order)

	reloaded, err := s.Sections(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, reloaded)

	_, err = s.ReorderSections(ctx, ids[1:])
	assert.ErrorIs(t, err, ErrInvalid)
	dup := append([]string{}, ids...)
	dup[1] = dup[0]
	_, err = s.ReorderSections(ctx, dup)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFeaturedCapacity(t *testing.T) {
	ctx := context.Background()
	s, _, rec := newService(t)

	_, err := s.SetFeaturedCapacity(ctx, 2, 1)
	require.NoError(t, err)
	_, err = s.AddBreaking(ctx, "a")
	require.NoError(t, err)
	_, err = s.AddBreaking(ctx, "b")
	require.NoError(t, err)
	_, err = s.AddBreaking(ctx, "c")
	assert.ErrorIs(t, err, ErrCapacity)
	_, err = s.AddHero(ctx, "a")
	require.NoError(t, err)
	_, err = s.AddHero(ctx, "b")
	assert.ErrorIs(t, err, ErrCapacity)

	f, err := s.SetFeaturedCapacity(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, f.BreakingNewsIDs)

	_, err = s.SetFeaturedCapacity(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrInvalid)

	f, err = s.RemoveHero(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, f.HeroFeaturedIDs)
	f, err = s.RemoveBreaking(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, f.BreakingNewsIDs)

	f, err = s.SetAutoSwipe(ctx, false, true, 8000)
	require.NoError(t, err)
	assert.False(t, f.BreakingAutoSwipe)
	assert.Equal(t, 8000, f.AutoSwipeInterval)
	_, err = s.SetAutoSwipe(ctx, false, true, 10)
	assert.ErrorIs(t, err, ErrInvalid)

	assert.Contains(t, rec.events, "featuredSettingsUpdated")
}

func TestMenuOperations(t *testing.T) {
	ctx := context.Background()
	s, store, _ := newService(t)
	require.NoError(t, store.Set(ctx, KeyMenu, []byte(`[
		{"id":"home","label":"Home","path":"/","type":"page","isVisible":true,"order":1},
		{"id":"nat","label":"National","path":"/category/national","type":"category","isVisible":true,"order":2}
	]`)))

	_, err := s.AddMenuItem(ctx, MenuItem{Label: "Jobs"})
	assert.ErrorIs(t, err, ErrInvalid)

	item, err := s.AddMenuItem(ctx, MenuItem{Label: "Jobs", Path: "/jobs", IsVisible: true})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 3, item.Order)
	assert.Equal(t, "page", item.Type)

	items, err := s.MoveMenuItem(ctx, item.ID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"home", item.ID, "nat"}, menuIDs(items))
	assert.Equal(t, 2, items[1].Order)

	items, err = s.MoveMenuItem(ctx, "home", true)
	require.NoError(t, err)
	assert.Equal(t, "home", items[0].ID)

	items, err = s.ToggleMenuVisibility(ctx, "nat")
	require.NoError(t, err)
	assert.False(t, items[2].IsVisible)
	visible, err := s.VisibleMenu(ctx)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	items, err = s.ToggleMenuHighlight(ctx, "home")
	require.NoError(t, err)
	assert.True(t, items[0].Highlight)

	items, err = s.UpdateMenuItem(ctx, MenuItem{ID: item.ID, Label: "Careers", Path: "/careers", Type: "page", IsVisible: true})
	require.NoError(t, err)
	assert.Equal(t, "Careers", items[1].Label)
	assert.Equal(t, 2, items[1].Order)

	items, err = s.DeleteMenuItem(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID, "nat"}, menuIDs(items))
	assert.Equal(t, 1, items[0].Order)
	assert.Equal(t, 2, items[1].Order)

	_, err = s.DeleteMenuItem(ctx, "home")
	assert.ErrorIs(t, err, ErrNotFound)
}

func menuIDs(items []MenuItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestEditorialCapacity(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newService(t)
	ed := DefaultEditorial()
	ed.MaxEditorials = 1
	require.NoError(t, s.SaveEditorial(ctx, ed))

	_, err := s.AddEditorial(ctx, "e1")
	require.NoError(t, err)
	_, err = s.AddEditorial(ctx, "e2")
	assert.ErrorIs(t, err, ErrCapacity)
	got, err := s.RemoveEditorial(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, got.EditorialIDs)

	ed.MaxComments = 13
	assert.ErrorIs(t, s.SaveEditorial(ctx, ed), ErrInvalid)
}

func TestPutValidatesAndPublishes(t *testing.T) {
	ctx := context.Background()
	s, store, rec := newService(t)

	v, err := s.Put(ctx, KeyContact, []byte(`{"phone":"+1 555 0000"}`))
	require.NoError(t, err)
	contact := v.(ContactInfo)
	assert.Equal(t, "+1 555 0000", contact.Phone)
	assert.Equal(t, "contact@truthlens.com", contact.Email)
	assert.Equal(t, []string{"contactSettingsUpdated"}, rec.events)

	_, err = s.Put(ctx, KeyFeatured, []byte(`{"maxBreakingNews":1,"breakingNewsIds":["a","b"]}`))
	assert.ErrorIs(t, err, ErrCapacity)
	_, err = s.Put(ctx, KeySite, []byte(`{"contactEmail":"not-an-email"}`))
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.Put(ctx, KeySite, []byte(`{broken`))
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.Put(ctx, "weather", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = store.Get(ctx, KeySite)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	doc, err := s.Document(ctx, KeyCategories)
	require.NoError(t, err)
	assert.Len(t, doc.([]Category), 9)
}

func TestSaveCategoriesRejectsDuplicates(t *testing.T) {
	s, _, _ := newService(t)
	err := s.SaveCategories(context.Background(), []Category{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}})
	assert.ErrorIs(t, err, ErrInvalid)
}
