package settings

const (
	KeyFeatured         = "featured"
	KeySections         = "sections"
	KeyMenu             = "menu"
	KeySite             = "site"
	KeySocial           = "social"
	KeyCategories       = "categories"
	KeyContact          = "contact"
	KeyInternshipConfig = "internship_config"
	KeyEditorial        = "editorial"
)

// Keys lists every settings document
var Keys = []string{KeyFeatured, KeySections, KeyMenu, KeySite, KeySocial, KeyCategories, KeyContact, KeyInternshipConfig, KeyEditorial}

func IsSettingsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// EventName is the event published after key is saved
func EventName(key string) string { return key + "SettingsUpdated" }

type FeaturedSettings struct {
	BreakingNewsIDs    []string `json:"breakingNewsIds"`
	HeroFeaturedIDs    []string `json:"heroFeaturedIds"`
	HeroSideArticleIDs []string `json:"heroSideArticleIds"`
	MaxBreakingNews    int      `json:"maxBreakingNews" validate:"min=1,max=10"`
	MaxHeroArticles    int      `json:"maxHeroArticles" validate:"min=1,max=10"`
	BreakingAutoSwipe  bool     `json:"breakingAutoSwipe"`
	AutoSwipeInterval  int      `json:"autoSwipeInterval" validate:"min=1000,max=60000"`
	HeroAutoSwipe      bool     `json:"heroAutoSwipe"`
}

// Section is one homepage block. MaxArticles 0 marks a static block that holds no articles.
type Section struct {
	ID                 string   `json:"id" validate:"required"`
	Name               string   `json:"name"`
	Enabled            bool     `json:"enabled"`
	Order              int      `json:"order"`
	MaxArticles        int      `json:"maxArticles" validate:"min=0,max=10"`
	SelectedArticleIDs []string `json:"selectedArticleIds"`
	ShowOnHomepage     bool     `json:"showOnHomepage"`
	Category           string   `json:"category,omitempty"`
}

func (s *Section) Static() bool { return s.MaxArticles == 0 }

type MenuItem struct {
	ID        string `json:"id"`
	Label     string `json:"label" validate:"required"`
	Path      string `json:"path" validate:"required"`
	Type      string `json:"type" validate:"omitempty,oneof=category page external"`
	IsVisible bool   `json:"isVisible"`
	Order     int    `json:"order"`
	Highlight bool   `json:"highlight"`
	Icon      string `json:"icon,omitempty"`
}

type SiteSettings struct {
	SiteName         string `json:"siteName" validate:"required"`
	Tagline          string `json:"tagline"`
	SiteDescription  string `json:"siteDescription"`
	ContactEmail     string `json:"contactEmail" validate:"omitempty,email"`
	EnableComments   bool   `json:"enableComments"`
	ModerateComments bool   `json:"moderateComments"`
	EnableNewsletter bool   `json:"enableNewsletter"`
	ArticlesPerPage  int    `json:"articlesPerPage" validate:"min=1,max=100"`
	DefaultCategory  string `json:"defaultCategory"`
	Timezone         string `json:"timezone"`
	DateFormat       string `json:"dateFormat"`
	MaintenanceMode  bool   `json:"maintenanceMode"`
}

type SocialLink struct {
	Platform string `json:"platform" validate:"required"`
	URL      string `json:"url" validate:"omitempty,url"`
}

type Category struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type ContactInfo struct {
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	OfficeHours string `json:"officeHours"`
}

type InternshipConfig struct {
	AcceptingApplications bool     `json:"acceptingApplications"`
	ShowBannerOnHomepage  bool     `json:"showBannerOnHomepage"`
	Departments           []string `json:"departments"`
	RequirePortfolio      bool     `json:"requirePortfolio"`
	AutoReplyEnabled      bool     `json:"autoReplyEnabled"`
}

type EditorialSettings struct {
	ShowEditorialSection bool     `json:"showEditorialSection"`
	MaxEditorials        int      `json:"maxEditorials" validate:"min=1,max=10"`
	EditorialIDs         []string `json:"editorialIds"`
	ShowCommentsSection  bool     `json:"showCommentsSection"`
	MaxComments          int      `json:"maxComments" validate:"min=1,max=12"`
	ModerateComments     bool     `json:"moderateComments"`
}
