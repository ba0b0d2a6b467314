package dto

// StructuredSubmission is the JSON webhook body. One of ContentHTML and
// ContentMarkdown must be non-empty; HTML wins when both are present and
// markdown passes through untouched.
type StructuredSubmission struct {
	Title           string `json:"title"`
	ContentHTML     string `json:"content_html"`
	ContentMarkdown string `json:"content_markdown"`
	MetaDescription string `json:"meta_description"`
	Keywords        string `json:"keywords"`
	HeroImageURL    string `json:"hero_image_url"`
	Test            bool   `json:"test"`
}

// Content returns the first non-empty content field.
func (s *StructuredSubmission) Content() string {
	if s.ContentHTML != "" {
		return s.ContentHTML
	}
	return s.ContentMarkdown
}

// Ack is the webhook response for an accepted submission.
type Ack struct {
	ID             string `json:"id"`
	DocumentID     int    `json:"documentId,omitempty"`
	ImagesUploaded int    `json:"imagesUploaded"`
	ImagesFailed   int    `json:"imagesFailed"`
	Test           bool   `json:"test,omitempty"`
}
