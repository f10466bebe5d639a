package service

import (
	"labsite/internal/entity"
	"labsite/internal/model"
	"strconv"
	"strings"
)

// ContentKind describes how one content family is addressed and filtered.
type ContentKind[T any] struct {
	Resource string
	Noun     string
	// Text returns the fields searched by "q".
	Text func(*T) []string
	// Match holds the remaining filters keyed by query parameter.
	Match map[string]func(item *T, value string) bool
}

func (k ContentKind[T]) matches(item *T, filters Filters) bool {
	for key, value := range filters {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if key == "q" {
			if !containsText(k.Text(item), value) {
				return false
			}
			continue
		}
		if match, ok := k.Match[key]; ok && !match(item, value) {
			return false
		}
	}
	return true
}

func containsText(fields []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), b)
}

// flagIs ignores values that are not booleans.
func flagIs(flag bool, value string) bool {
	want, err := strconv.ParseBool(value)
	return err != nil || flag == want
}

// yearIs ignores values that are not integers.
func yearIs(year int, value string) bool {
	want, err := strconv.Atoi(value)
	return err != nil || year == want
}

var DatasetKind = ContentKind[entity.Dataset]{
	Resource: "datasets",
	Noun:     "dataset",
	Text: func(d *entity.Dataset) []string {
		return []string{d.Name, d.Slug, d.Summary, d.Description}
	},
	Match: map[string]func(*entity.Dataset, string) bool{
		"license":  func(d *entity.Dataset, v string) bool { return sameText(d.License, v) },
		"language": func(d *entity.Dataset, v string) bool { return d.Languages.Contains(v) },
		"domain":   func(d *entity.Dataset, v string) bool { return d.Domains.Contains(v) },
		"tag":      func(d *entity.Dataset, v string) bool { return d.Tags.Contains(v) },
		"featured": func(d *entity.Dataset, v string) bool { return flagIs(d.Featured, v) },
	},
}

var PrototypeKind = ContentKind[entity.Prototype]{
	Resource: "prototypes",
	Noun:     "prototype",
	Text: func(p *entity.Prototype) []string {
		return []string{p.Title, p.Slug, p.Summary, p.Description}
	},
	Match: map[string]func(*entity.Prototype, string) bool{
		"status":   func(p *entity.Prototype, v string) bool { return sameText(p.Status, v) },
		"tag":      func(p *entity.Prototype, v string) bool { return p.Tags.Contains(v) },
		"featured": func(p *entity.Prototype, v string) bool { return flagIs(p.Featured, v) },
	},
}

var WorkingPaperKind = ContentKind[entity.WorkingPaper]{
	Resource: "working-papers",
	Noun:     "working paper",
	Text: func(w *entity.WorkingPaper) []string {
		return append([]string{w.Title, w.Slug, w.Abstract}, w.Authors...)
	},
	Match: map[string]func(*entity.WorkingPaper, string) bool{
		"status":   func(w *entity.WorkingPaper, v string) bool { return sameText(w.Status, v) },
		"year":     func(w *entity.WorkingPaper, v string) bool { return yearIs(w.Year, v) },
		"author":   func(w *entity.WorkingPaper, v string) bool { return w.Authors.Contains(v) },
		"tag":      func(w *entity.WorkingPaper, v string) bool { return w.Tags.Contains(v) },
		"featured": func(w *entity.WorkingPaper, v string) bool { return flagIs(w.Featured, v) },
	},
}

var SocialPostKind = ContentKind[entity.SocialPost]{
	Resource: "social-posts",
	Noun:     "social post",
	Text: func(s *entity.SocialPost) []string {
		return []string{s.Slug, s.Platform, s.Content}
	},
	Match: map[string]func(*entity.SocialPost, string) bool{
		"platform": func(s *entity.SocialPost, v string) bool { return sameText(s.Platform, v) },
		"tag":      func(s *entity.SocialPost, v string) bool { return s.Tags.Contains(v) },
	},
}

var LiteratureReviewKind = ContentKind[entity.LiteratureReview]{
	Resource: "literature-reviews",
	Noun:     "literature review",
	Text: func(l *entity.LiteratureReview) []string {
		return append([]string{l.Title, l.Slug, l.Summary, l.Topic}, l.Authors...)
	},
	Match: map[string]func(*entity.LiteratureReview, string) bool{
		"topic":    func(l *entity.LiteratureReview, v string) bool { return sameText(l.Topic, v) },
		"author":   func(l *entity.LiteratureReview, v string) bool { return l.Authors.Contains(v) },
		"tag":      func(l *entity.LiteratureReview, v string) bool { return l.Tags.Contains(v) },
		"featured": func(l *entity.LiteratureReview, v string) bool { return flagIs(l.Featured, v) },
	},
}

var ResearchThemeKind = ContentKind[entity.ResearchTheme]{
	Resource: "research-themes",
	Noun:     "research theme",
	Text: func(r *entity.ResearchTheme) []string {
		return append([]string{r.Title, r.Slug, r.Summary, r.Description}, r.Questions...)
	},
	Match: map[string]func(*entity.ResearchTheme, string) bool{
		"tag":      func(r *entity.ResearchTheme, v string) bool { return r.Tags.Contains(v) },
		"featured": func(r *entity.ResearchTheme, v string) bool { return flagIs(r.Featured, v) },
	},
}

var UpdateKind = ContentKind[entity.Update]{
	Resource: "updates",
	Noun:     "update",
	Text: func(u *entity.Update) []string {
		return []string{u.Title, u.Slug, u.Summary, u.Body}
	},
	Match: map[string]func(*entity.Update, string) bool{
		"category": func(u *entity.Update, v string) bool { return sameText(u.Category, v) },
		"tag":      func(u *entity.Update, v string) bool { return u.Tags.Contains(v) },
		"featured": func(u *entity.Update, v string) bool { return flagIs(u.Featured, v) },
	},
}

var ResearchArtifactKind = ContentKind[entity.ResearchArtifact]{
	Resource: "research-artifacts",
	Noun:     "research artifact",
	Text: func(r *entity.ResearchArtifact) []string {
		return []string{r.Title, r.Slug, r.ArtifactType, r.Description}
	},
	Match: map[string]func(*entity.ResearchArtifact, string) bool{
		"artifact_type": func(r *entity.ResearchArtifact, v string) bool { return sameText(r.ArtifactType, v) },
		"tag":           func(r *entity.ResearchArtifact, v string) bool { return r.Tags.Contains(v) },
		"featured":      func(r *entity.ResearchArtifact, v string) bool { return flagIs(r.Featured, v) },
	},
}

var ExternalPaperKind = ContentKind[entity.ExternalPaper]{
	Resource: "external-papers",
	Noun:     "external paper",
	Text: func(e *entity.ExternalPaper) []string {
		return append([]string{e.Title, e.Slug, e.Venue, e.Abstract}, e.Authors...)
	},
	Match: map[string]func(*entity.ExternalPaper, string) bool{
		"venue":    func(e *entity.ExternalPaper, v string) bool { return sameText(e.Venue, v) },
		"year":     func(e *entity.ExternalPaper, v string) bool { return yearIs(e.Year, v) },
		"author":   func(e *entity.ExternalPaper, v string) bool { return e.Authors.Contains(v) },
		"tag":      func(e *entity.ExternalPaper, v string) bool { return e.Tags.Contains(v) },
		"featured": func(e *entity.ExternalPaper, v string) bool { return flagIs(e.Featured, v) },
	},
}

// ContentServices bundles one service per content family.
type ContentServices struct {
	Datasets          *ContentService[entity.Dataset, *entity.Dataset]
	Prototypes        *ContentService[entity.Prototype, *entity.Prototype]
	WorkingPapers     *ContentService[entity.WorkingPaper, *entity.WorkingPaper]
	SocialPosts       *ContentService[entity.SocialPost, *entity.SocialPost]
	LiteratureReviews *ContentService[entity.LiteratureReview, *entity.LiteratureReview]
	ResearchThemes    *ContentService[entity.ResearchTheme, *entity.ResearchTheme]
	Updates           *ContentService[entity.Update, *entity.Update]
	ResearchArtifacts *ContentService[entity.ResearchArtifact, *entity.ResearchArtifact]
	ExternalPapers    *ContentService[entity.ExternalPaper, *entity.ExternalPaper]
}

func NewContentServices(stores *model.Stores, clock Clock) *ContentServices {
	return &ContentServices{
		Datasets:          NewContentService[entity.Dataset](DatasetKind, stores.Datasets, clock),
		Prototypes:        NewContentService[entity.Prototype](PrototypeKind, stores.Prototypes, clock),
		WorkingPapers:     NewContentService[entity.WorkingPaper](WorkingPaperKind, stores.WorkingPapers, clock),
		SocialPosts:       NewContentService[entity.SocialPost](SocialPostKind, stores.SocialPosts, clock),
		LiteratureReviews: NewContentService[entity.LiteratureReview](LiteratureReviewKind, stores.LiteratureReviews, clock),
		ResearchThemes:    NewContentService[entity.ResearchTheme](ResearchThemeKind, stores.ResearchThemes, clock),
		Updates:           NewContentService[entity.Update](UpdateKind, stores.Updates, clock),
		ResearchArtifacts: NewContentService[entity.ResearchArtifact](ResearchArtifactKind, stores.ResearchArtifacts, clock),
		ExternalPapers:    NewContentService[entity.ExternalPaper](ExternalPaperKind, stores.ExternalPapers, clock),
	}
}
