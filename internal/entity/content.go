package entity

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Content is implemented by every publicly listed content record.
type Content interface {
	Base() *ContentBase
	Normalize()
}

// ContentPtr lets generic code allocate a T and use it as Content.
type ContentPtr[T any] interface {
	*T
	Content
}

// ContentBase holds the columns shared by every content table.
type ContentBase struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Slug      string    `gorm:"column:slug;type:varchar(191);uniqueIndex;not null" json:"slug" validate:"required"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Base exposes the shared columns.
func (b *ContentBase) Base() *ContentBase {
	return b
}

func normalizeJSONMap(m datatypes.JSONMap) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return m
}

type Dataset struct {
	ContentBase
	Name        string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Summary     string      `gorm:"type:text;not null" json:"summary" validate:"required"`
	Description string      `gorm:"type:text" json:"description"`
	License     string      `gorm:"type:varchar(128);not null" json:"license" validate:"required"`
	Size        string      `gorm:"type:varchar(64)" json:"size"`
	DownloadURL string      `gorm:"type:text" json:"downloadUrl" validate:"omitempty,url"`
	PaperURL    string      `gorm:"type:text" json:"paperUrl" validate:"omitempty,url"`
	Languages   StringArray `gorm:"type:text" json:"languages"`
	Domains     StringArray `gorm:"type:text" json:"domains"`
	Tags        StringArray `gorm:"type:text" json:"tags"`
	Featured    bool        `gorm:"not null;default:false" json:"featured"`
}

func (Dataset) TableName() string { return "datasets" }

func (d *Dataset) Normalize() {
	d.Slug = strings.TrimSpace(d.Slug)
	d.Name = strings.TrimSpace(d.Name)
	d.Languages = d.Languages.Normalize()
	d.Domains = d.Domains.Normalize()
	d.Tags = d.Tags.Normalize()
}

type Prototype struct {
	ContentBase
	Title        string      `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Summary      string      `gorm:"type:text;not null" json:"summary" validate:"required"`
	Description  string      `gorm:"type:text" json:"description"`
	Status       string      `gorm:"type:varchar(32)" json:"status" validate:"omitempty,oneof=concept alpha beta live archived"`
	DemoURL      string      `gorm:"type:text" json:"demoUrl" validate:"omitempty,url"`
	RepoURL      string      `gorm:"type:text" json:"repoUrl" validate:"omitempty,url"`
	ImageURL     string      `gorm:"type:text" json:"imageUrl" validate:"omitempty,url"`
	Technologies StringArray `gorm:"type:text" json:"technologies"`
	Tags         StringArray `gorm:"type:text" json:"tags"`
	Featured     bool        `gorm:"not null;default:false" json:"featured"`
}

func (Prototype) TableName() string { return "prototypes" }

func (p *Prototype) Normalize() {
	p.Slug = strings.TrimSpace(p.Slug)
	p.Title = strings.TrimSpace(p.Title)
	p.Technologies = p.Technologies.Normalize()
	p.Tags = p.Tags.Normalize()
}

type WorkingPaper struct {
	ContentBase
	Title    string      `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Abstract string      `gorm:"type:text;not null" json:"abstract" validate:"required"`
	Authors  StringArray `gorm:"type:text" json:"authors" validate:"min=1"`
	Year     int         `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Status   string      `gorm:"type:varchar(32)" json:"status" validate:"omitempty,oneof=draft under-review published"`
	PDFURL   string      `gorm:"column:pdf_url;type:text" json:"pdfUrl" validate:"omitempty,url"`
	Tags     StringArray `gorm:"type:text" json:"tags"`
	Featured bool        `gorm:"not null;default:false" json:"featured"`
}

func (WorkingPaper) TableName() string { return "working_papers" }

func (w *WorkingPaper) Normalize() {
	w.Slug = strings.TrimSpace(w.Slug)
	w.Title = strings.TrimSpace(w.Title)
	w.Authors = w.Authors.Normalize()
	w.Tags = w.Tags.Normalize()
}

type SocialPost struct {
	ContentBase
	Platform string      `gorm:"type:varchar(64);not null" json:"platform" validate:"required"`
	Content  string      `gorm:"type:text;not null" json:"content" validate:"required"`
	PostURL  string      `gorm:"type:text;not null" json:"postUrl" validate:"required,url"`
	PostedAt *time.Time  `json:"postedAt"`
	Tags     StringArray `gorm:"type:text" json:"tags"`
}

func (SocialPost) TableName() string { return "social_posts" }

func (s *SocialPost) Normalize() {
	s.Slug = strings.TrimSpace(s.Slug)
	s.Platform = strings.ToLower(strings.TrimSpace(s.Platform))
	s.Tags = s.Tags.Normalize()
}

type LiteratureReview struct {
	ContentBase
	Title       string            `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Summary     string            `gorm:"type:text;not null" json:"summary" validate:"required"`
	Topic       string            `gorm:"type:varchar(128)" json:"topic"`
	DocumentURL string            `gorm:"type:text" json:"documentUrl" validate:"omitempty,url"`
	Authors     StringArray       `gorm:"type:text" json:"authors"`
	Sources     datatypes.JSONMap `json:"sources"`
	Tags        StringArray       `gorm:"type:text" json:"tags"`
	Featured    bool              `gorm:"not null;default:false" json:"featured"`
}

func (LiteratureReview) TableName() string { return "literature_reviews" }

func (l *LiteratureReview) Normalize() {
	l.Slug = strings.TrimSpace(l.Slug)
	l.Title = strings.TrimSpace(l.Title)
	l.Authors = l.Authors.Normalize()
	l.Sources = normalizeJSONMap(l.Sources)
	l.Tags = l.Tags.Normalize()
}

type ResearchTheme struct {
	ContentBase
	Title       string      `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Summary     string      `gorm:"type:text;not null" json:"summary" validate:"required"`
	Description string      `gorm:"type:text" json:"description"`
	Icon        string      `gorm:"type:varchar(64)" json:"icon"`
	ImageURL    string      `gorm:"type:text" json:"imageUrl" validate:"omitempty,url"`
	Questions   StringArray `gorm:"type:text" json:"questions"`
	Tags        StringArray `gorm:"type:text" json:"tags"`
	SortOrder   int         `gorm:"not null;default:0" json:"sortOrder"`
	Featured    bool        `gorm:"not null;default:false" json:"featured"`
}

func (ResearchTheme) TableName() string { return "research_themes" }

func (r *ResearchTheme) Normalize() {
	r.Slug = strings.TrimSpace(r.Slug)
	r.Title = strings.TrimSpace(r.Title)
	r.Questions = r.Questions.Normalize()
	r.Tags = r.Tags.Normalize()
}

type Update struct {
	ContentBase
	Title       string      `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Summary     string      `gorm:"type:text;not null" json:"summary" validate:"required"`
	Body        string      `gorm:"type:text" json:"body"`
	Category    string      `gorm:"type:varchar(64)" json:"category"`
	LinkURL     string      `gorm:"type:text" json:"linkUrl" validate:"omitempty,url"`
	PublishedAt *time.Time  `json:"publishedAt"`
	Tags        StringArray `gorm:"type:text" json:"tags"`
	Featured    bool        `gorm:"not null;default:false" json:"featured"`
}

func (Update) TableName() string { return "updates" }

func (u *Update) Normalize() {
	u.Slug = strings.TrimSpace(u.Slug)
	u.Title = strings.TrimSpace(u.Title)
	u.Category = strings.TrimSpace(u.Category)
	u.Tags = u.Tags.Normalize()
}

type ResearchArtifact struct {
	ContentBase
	Title        string            `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	ArtifactType string            `gorm:"type:varchar(64);not null" json:"artifactType" validate:"required"`
	Description  string            `gorm:"type:text" json:"description"`
	URL          string            `gorm:"column:url;type:text" json:"url" validate:"omitempty,url"`
	Links        datatypes.JSONMap `json:"links"`
	Tags         StringArray       `gorm:"type:text" json:"tags"`
	Featured     bool              `gorm:"not null;default:false" json:"featured"`
}

func (ResearchArtifact) TableName() string { return "research_artifacts" }

func (r *ResearchArtifact) Normalize() {
	r.Slug = strings.TrimSpace(r.Slug)
	r.Title = strings.TrimSpace(r.Title)
	r.ArtifactType = strings.TrimSpace(r.ArtifactType)
	r.Links = normalizeJSONMap(r.Links)
	r.Tags = r.Tags.Normalize()
}

type ExternalPaper struct {
	ContentBase
	Title    string      `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Authors  StringArray `gorm:"type:text" json:"authors" validate:"min=1"`
	Venue    string      `gorm:"type:varchar(255)" json:"venue"`
	Year     int         `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	URL      string      `gorm:"column:url;type:text;not null" json:"url" validate:"required,url"`
	DOI      string      `gorm:"column:doi;type:varchar(128)" json:"doi"`
	Abstract string      `gorm:"type:text" json:"abstract"`
	Tags     StringArray `gorm:"type:text" json:"tags"`
	Featured bool        `gorm:"not null;default:false" json:"featured"`
}

func (ExternalPaper) TableName() string { return "external_papers" }

func (e *ExternalPaper) Normalize() {
	e.Slug = strings.TrimSpace(e.Slug)
	e.Title = strings.TrimSpace(e.Title)
	e.Authors = e.Authors.Normalize()
	e.Tags = e.Tags.Normalize()
}

// ContentModels lists every content table for migrations.
func ContentModels() []interface{} {
	return []interface{}{
		&Dataset{},
		&Prototype{},
		&WorkingPaper{},
		&SocialPost{},
		&LiteratureReview{},
		&ResearchTheme{},
		&Update{},
		&ResearchArtifact{},
		&ExternalPaper{},
	}
}
