package domain

import "github.com/google/uuid"

// ArticleSubmission is one incoming webhook payload after the ingress
// adapter has flattened it. Immutable for the lifetime of the request.
type ArticleSubmission struct {
	ID              uuid.UUID
	Provider        string
	Title           string
	ContentHTML     string
	MetaDescription string
	Keywords        string

	// HeroURL and HeroUpload are the explicit cover image variants. At most
	// one is set; HeroUpload comes from a binary attachment and skips the
	// network fetch entirely.
	HeroURL    string
	HeroUpload *HeroUpload

	// WithSEO is set by the structured adapter only.
	WithSEO bool
	// Normalize runs the HTML normalizer before image rewriting. Freeform
	// text submissions skip it.
	Normalize bool
}

// HeroUpload is an in-memory cover image attachment.
type HeroUpload struct {
	Filename string
	MIME     string
	Data     []byte
}

// UploadedAsset is the CMS's record of a re-hosted image.
type UploadedAsset struct {
	ID   int
	URL  string
	MIME string
}

// RewriteStats counts per-image outcomes for one document.
type RewriteStats struct {
	Total   int
	Success int
	Failed  int
}

// RewriteResult is the outcome of re-hosting a document's images.
// Assets is ordered by position in the document.
type RewriteResult struct {
	HTML   string
	Assets []UploadedAsset
	Stats  RewriteStats
}

// Document is the final CMS entry. A nil Cover/SEO field is omitted from
// the creation payload.
type Document struct {
	Title   string
	Slug    string
	Content string
	Cover   *UploadedAsset
	SEO     *SEO
}

// SEO is the optional metadata block attached by the structured adapter.
type SEO struct {
	MetaTitle       string
	MetaDescription string
	Keywords        string
	// MetaImageID references the cover asset; zero means unset.
	MetaImageID int
}
