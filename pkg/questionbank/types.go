package questionbank

import (
	"time"
)

// AssetKind is the domain type for the kinds of assets a question can
// reference.
type AssetKind string

// Asset kind constants (typed).
const (
	KindImage        AssetKind = "image"
	KindAudio        AssetKind = "audio"
	KindVideo        AssetKind = "video"
	KindPage         AssetKind = "page"
	KindTable        AssetKind = "table"
	KindExternalLink AssetKind = "external_link"
	KindUnresolved   AssetKind = "unresolved"
)

// IsFileBacked reports whether assets of this kind resolve to a physical
// media file.
func (k AssetKind) IsFileBacked() bool {
	return k == KindImage || k == KindAudio || k == KindVideo
}

// IsContent reports whether assets of this kind carry nested markup that
// must itself be hydrated.
func (k AssetKind) IsContent() bool {
	return k == KindPage || k == KindTable
}

// Subdir returns the per-kind directory name under the asset root
// ("images", "audios", "videos", "pages", "tables").
func (k AssetKind) Subdir() string {
	return string(k) + "s"
}

// AssetDocument is the stored record for a single asset, as returned by an
// AssetStore. File-backed kinds carry a display name; content kinds carry
// raw markup.
type AssetDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Markup      string    `json:"markup,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssetRef is a resolved reference produced by hydration. Kind is fixed at
// resolution time. Which fields are populated depends on the kind:
//
//   - image/audio/video: DisplayName, FilePath, LinkText
//   - page/table: DisplayName, Markup (already hydrated), LinkText
//   - external_link: URL, LinkText
type AssetRef struct {
	ID          string    `json:"id,omitempty"`
	Kind        AssetKind `json:"kind"`
	DisplayName string    `json:"display_name,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
	Markup      string    `json:"markup,omitempty"`
	URL         string    `json:"url,omitempty"`
	LinkText    string    `json:"link_text,omitempty"`
}

// Choice is a single answer option on a question.
type Choice struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is the stored form of an exam question. QuestionHTML and
// ExplanationHTML hold the raw markup with un-hydrated placeholders.
type Question struct {
	ID              string    `json:"id"`
	Name            string    `json:"name,omitempty"`
	Source          string    `json:"source,omitempty"`
	Tags            []string  `json:"tags,omitempty"`
	QuestionHTML    string    `json:"question_html"`
	ExplanationHTML string    `json:"explanation_html,omitempty"`
	Choices         []Choice  `json:"choices,omitempty"`
	Favorite        bool      `json:"favorite"`
	Marked          bool      `json:"marked"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HydrationResult is the display-ready form of a question. Assets holds
// every referenced asset in document order: question body first, then
// explanation, outer occurrences before the fragments they nest, left to
// right within a field. Ordinals in the rewritten markup are 1-based
// positions into Assets.
//
// A HydrationResult is computed fresh per read and never persisted.
type HydrationResult struct {
	Question        *Question  `json:"question"`
	QuestionHTML    string     `json:"question_html"`
	ExplanationHTML string     `json:"explanation_html,omitempty"`
	Assets          []AssetRef `json:"assets"`
	NextIndex       int        `json:"next_index"`
}

// QuestionFilter defines filtering options for listing questions.
type QuestionFilter struct {
	Text          string
	Source        string
	Tags          []string
	FavoritesOnly bool
	MarkedOnly    bool
	Limit         int
	Offset        int
}
