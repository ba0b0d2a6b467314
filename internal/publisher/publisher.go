// Package publisher assembles the final document (slug, cover, SEO block)
// and submits it to the CMS. Creation is the one step whose failure aborts a
// submission.
package publisher

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/DjordjeVuckovic/article-publisher/internal/domain"
	"github.com/DjordjeVuckovic/article-publisher/pkg/stringsutil"
)

const (
	metaTitleMax   = 60
	slugTokenChars = 6
)

// DocumentCreator persists one assembled document in the CMS.
type DocumentCreator interface {
	CreateDocument(ctx context.Context, doc domain.Document) (int, error)
}

type Publisher struct {
	cms DocumentCreator
}

func New(cms DocumentCreator) *Publisher {
	return &Publisher{cms: cms}
}

// Assemble builds the document payload. Cover priority: explicit hero, then
// the first re-hosted content image, then none. The SEO block is attached
// only for submissions that carry structured metadata.
func (p *Publisher) Assemble(sub domain.ArticleSubmission, content string, hero *domain.UploadedAsset, contentAssets []domain.UploadedAsset) domain.Document {
	doc := domain.Document{
		Title:   sub.Title,
		Slug:    Slugify(sub.Title),
		Content: content,
		Cover:   selectCover(hero, contentAssets),
	}

	if sub.WithSEO {
		seo := &domain.SEO{
			MetaTitle:       stringsutil.Truncate(sub.Title, metaTitleMax),
			MetaDescription: sub.MetaDescription,
			Keywords:        sub.Keywords,
		}
		if doc.Cover != nil {
			seo.MetaImageID = doc.Cover.ID
		}
		doc.SEO = seo
	}

	return doc
}

// Publish submits the document and returns the created record's id.
func (p *Publisher) Publish(ctx context.Context, doc domain.Document) (int, error) {
	id, err := p.cms.CreateDocument(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("creating document %q: %w", doc.Slug, err)
	}

	return id, nil
}

func selectCover(hero *domain.UploadedAsset, contentAssets []domain.UploadedAsset) *domain.UploadedAsset {
	if hero != nil {
		return hero
	}
	if len(contentAssets) > 0 {
		return &contentAssets[0]
	}
	return nil
}

// Slugify builds a URL-safe, transliterated, lowercased key from the title.
// The random suffix makes every creation attempt unique; a failed creation
// never recycles its slug.
func Slugify(title string) string {
	return slug.MakeLang(title+" "+randomToken(slugTokenChars), "en")
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = tokenAlphabet[int(b[i])%len(tokenAlphabet)]
	}
	return string(b)
}
