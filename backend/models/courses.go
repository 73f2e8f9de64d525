package models

// Resource file types accepted by the catalog.
const (
	ResourcePDF   = "PDF"
	ResourceZIP   = "ZIP"
	ResourceBlend = "BlendFile"
)

// Course is the fully hydrated view of a raw course document. It is built
// fresh on every fetch and never mutated in place; updates go back to the
// document store and replace the whole entity on the next hydration.
type Course struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	ThumbnailURL     string     `json:"thumbnailUrl"`
	Price            *float64   `json:"price,omitempty"`
	OriginalPrice    *float64   `json:"originalPrice,omitempty"`
	Currency         string     `json:"currency,omitempty"`
	IsPaid           bool       `json:"isPaid"`
	IsFree           bool       `json:"isFree"`
	IsPublished      bool       `json:"isPublished"`
	FeaturedPriority *float64   `json:"featuredPriority,omitempty"`
	Rating           float64    `json:"rating"`
	StudentCount     int        `json:"studentCount"`
	Author           *Author    `json:"author,omitempty"`
	Lectures         []Lecture  `json:"lectures"`
	Sections         []Section  `json:"sections"`
	Tags             []string   `json:"tags"`
	Includes         []string   `json:"includes,omitempty"`
	SuggestedCourses []string   `json:"suggestedCourses,omitempty"`
	FAQs             []FAQ      `json:"faqs,omitempty"`
	Comments         []Comment  `json:"comments,omitempty"`
	Resources        []Resource `json:"resources,omitempty"`
}

// Lecture belongs to exactly one course. Duration is free text, not a fixed
// unit; IsPreview gates access prior to enrollment.
type Lecture struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	VideoURL    string `json:"videoUrl"`
	Summary     string `json:"summary"`
	IsCompleted bool   `json:"isCompleted"`
	IsPreview   bool   `json:"isPreview"`
}

// Section is a named, ordered subset view over a course's lectures.
// Progress is always in [0,100].
type Section struct {
	Title    string    `json:"title"`
	Lectures []Lecture `json:"lectures"`
	Progress int       `json:"progress"`
}

// Author is a denormalized snapshot of a user-like record embedded in a
// course, not a live reference.
type Author struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Comment struct {
	ID      string  `json:"id,omitempty"`
	User    string  `json:"user"`
	Avatar  string  `json:"avatar,omitempty"`
	Text    string  `json:"text"`
	Replies []Reply `json:"replies,omitempty"`
}

type Reply struct {
	ID     string `json:"id,omitempty"`
	User   string `json:"user"`
	Avatar string `json:"avatar,omitempty"`
	Text   string `json:"text"`
}

type Resource struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size string `json:"size,omitempty"`
}
