package settings

func DefaultFeatured() FeaturedSettings {
	return FeaturedSettings{
		BreakingNewsIDs:    []string{},
		HeroFeaturedIDs:    []string{},
		HeroSideArticleIDs: []string{},
		MaxBreakingNews:    5,
		MaxHeroArticles:    5,
		BreakingAutoSwipe:  true,
		AutoSwipeInterval:  5000,
		HeroAutoSwipe:      true,
	}
}

func DefaultSections() []Section {
	sec := func(id, name string, order, max int, category string) Section {
		return Section{ID: id, Name: name, Enabled: true, Order: order, MaxArticles: max,
			SelectedArticleIDs: []string{}, ShowOnHomepage: true, Category: category}
	}
	return []Section{
		sec("breaking-news", "Breaking News Ticker", 1, 5, ""),
		sec("hero", "Hero Section", 2, 5, ""),
		sec("video-stories", "Video Stories", 3, 4, ""),
		sec("latest-stories", "Latest Stories", 4, 6, ""),
		sec("trending", "Trending Now", 5, 5, ""),
		sec("comments", "Reader Comments", 6, 3, ""),
		sec("internship-banner", "Internship Banner", 7, 0, ""),
		sec("untold-stories", "Untold Stories", 8, 4, "untold-stories"),
		sec("sports", "Sports", 9, 4, "sports"),
		sec("entertainment", "Entertainment", 10, 4, "entertainment"),
		sec("editorial", "Editorial & Opinion", 11, 4, "editorial"),
	}
}

func DefaultCategories() []Category {
	return []Category{
		{ID: "national", Name: "National", Description: "News from across the nation"},
		{ID: "international", Name: "International", Description: "Global news and events"},
		{ID: "economy", Name: "Economy", Description: "Business and financial news"},
		{ID: "environment", Name: "Environment", Description: "Climate and environmental stories"},
		{ID: "society", Name: "Society", Description: "Social issues and community"},
		{ID: "culture", Name: "Culture", Description: "Arts, entertainment, and heritage"},
		{ID: "technology", Name: "Technology", Description: "Tech news and innovations"},
		{ID: "editorial", Name: "Editorial", Description: "Opinion and analysis"},
		{ID: "untold-stories", Name: "Untold Stories", Description: "Investigative journalism"},
	}
}

// DefaultMenu is Home followed by one entry per default category
func DefaultMenu() []MenuItem {
	items := []MenuItem{{ID: "home", Label: "Home", Path: "/", Type: "page", IsVisible: true, Order: 1}}
	for _, c := range DefaultCategories() {
		items = append(items, MenuItem{ID: c.ID, Label: c.Name, Path: "/category/" + c.ID,
			Type: "category", IsVisible: true, Order: len(items) + 1})
	}
	return items
}

func DefaultSite() SiteSettings {
	return SiteSettings{
		SiteName:         "TruthLens",
		Tagline:          "Authentic Stories. Unbiased Voices.",
		SiteDescription:  "Your trusted source for fact-based journalism.",
		ContactEmail:     "contact@truthlens.com",
		EnableComments:   true,
		ModerateComments: true,
		EnableNewsletter: true,
		ArticlesPerPage:  10,
		DefaultCategory:  "national",
		Timezone:         "UTC",
		DateFormat:       "MMM d, yyyy",
		MaintenanceMode:  false,
	}
}

func DefaultSocial() []SocialLink {
	return []SocialLink{{Platform: "facebook"}, {Platform: "twitter"}, {Platform: "instagram"}, {Platform: "youtube"}}
}

func DefaultContact() ContactInfo {
	return ContactInfo{
		Email:       "contact@truthlens.com",
		Phone:       "+1 (555) 123-4567",
		Address:     "123 News Street, Media City, MC 12345",
		OfficeHours: "Mon-Fri 9:00 AM - 6:00 PM",
	}
}

func DefaultInternshipConfig() InternshipConfig {
	return InternshipConfig{
		AcceptingApplications: true,
		ShowBannerOnHomepage:  true,
		Departments:           []string{"editorial", "multimedia", "podcasting", "digital"},
		RequirePortfolio:      false,
		AutoReplyEnabled:      true,
	}
}

func DefaultEditorial() EditorialSettings {
	return EditorialSettings{
		ShowEditorialSection: true,
		MaxEditorials:        4,
		EditorialIDs:         []string{},
		ShowCommentsSection:  true,
		MaxComments:          4,
		ModerateComments:     true,
	}
}
