// Package normalizer cleans up incoming HTML fragments before image
// rewriting: it drops embedded structured-data scripts, strips the redundant
// leading title+hero pattern some providers prepend, and inserts visual
// separators before section headings.
package normalizer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BreakMarker separates sections in rendered content. The freeform adapter
// reuses it as the paragraph joiner.
const BreakMarker = "<br/>"

type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize cleans one HTML fragment. When the stripped leading image has an
// absolute http(s) src, that URL is returned so the pipeline can re-host it
// as the document cover instead of losing it. Not idempotent with respect to
// the section separators, so callers apply it at most once per submission.
func (n *Normalizer) Normalize(fragment string) (html string, heroSrc string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find(`script[type="application/ld+json"]`).Remove()

	body := doc.Find("body")

	// Providers that render the article page themselves often prepend the
	// title as an H1 followed by the hero image. Both duplicate fields the
	// document carries separately: the title field and the cover.
	first := body.Children().First()
	if first.Is("h1") {
		first.Remove()

		next := body.Children().First()
		if next.Is("img") {
			heroSrc = imageSrc(next)
			next.Remove()
		} else if next.Is("p") && isImageOnly(next) {
			heroSrc = imageSrc(next.Find("img").First())
			next.Remove()
		}
	}

	doc.Find("h2").BeforeHtml(BreakMarker)

	out, err := body.Html()
	if err != nil {
		return "", "", fmt.Errorf("serializing HTML: %w", err)
	}

	return out, heroSrc, nil
}

// isImageOnly reports whether the paragraph contains an image and no text.
func isImageOnly(s *goquery.Selection) bool {
	if s.Find("img").Length() == 0 {
		return false
	}
	return strings.TrimSpace(s.Text()) == ""
}

// imageSrc returns the element's src when it is an absolute http(s) URL.
func imageSrc(s *goquery.Selection) string {
	src, ok := s.Attr("src")
	if !ok {
		return ""
	}

	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}

	return src
}
