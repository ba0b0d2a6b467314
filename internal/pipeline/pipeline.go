// Package pipeline wires one submission through normalization, image
// rewriting and document creation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/article-publisher/internal/assets"
	"github.com/DjordjeVuckovic/article-publisher/internal/domain"
	"github.com/DjordjeVuckovic/article-publisher/internal/normalizer"
	"github.com/DjordjeVuckovic/article-publisher/internal/publisher"
)

// ImageRewriter re-hosts a document's images and rewrites its HTML.
type ImageRewriter interface {
	Rewrite(ctx context.Context, html string) (*domain.RewriteResult, error)
}

// Hoster uploads the explicit hero image.
type Hoster interface {
	FetchAndHost(ctx context.Context, src assets.Source) (*domain.UploadedAsset, error)
}

// Receipt is what the webhook caller gets back for a processed submission.
type Receipt struct {
	DocumentID     int
	ImagesUploaded int
	ImagesFailed   int
}

type Pipeline struct {
	normalizer *normalizer.Normalizer
	rewriter   ImageRewriter
	transport  Hoster
	publisher  *publisher.Publisher
}

func New(n *normalizer.Normalizer, r ImageRewriter, t Hoster, p *publisher.Publisher) *Pipeline {
	return &Pipeline{
		normalizer: n,
		rewriter:   r,
		transport:  t,
		publisher:  p,
	}
}

// Process runs one submission to completion. Per-image failures are absorbed
// into the receipt counts; only document creation can fail the submission.
func (p *Pipeline) Process(ctx context.Context, sub domain.ArticleSubmission) (*Receipt, error) {
	start := time.Now()
	slog.Info("Processing submission",
		"id", sub.ID,
		"provider", sub.Provider,
		"title", sub.Title,
	)

	content := sub.ContentHTML
	strippedHero := ""
	if sub.Normalize {
		normalized, heroSrc, err := p.normalizer.Normalize(content)
		if err != nil {
			return nil, fmt.Errorf("normalizing content: %w", err)
		}
		content = normalized
		strippedHero = heroSrc
	}

	rewrite, err := p.rewriter.Rewrite(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("rewriting images: %w", err)
	}

	hero, heroAttempted := p.hostHero(ctx, sub, strippedHero)

	uploaded := rewrite.Stats.Success
	failed := rewrite.Stats.Failed
	if heroAttempted {
		if hero != nil {
			uploaded++
		} else {
			failed++
		}
	}

	doc := p.publisher.Assemble(sub, rewrite.HTML, hero, rewrite.Assets)

	id, err := p.publisher.Publish(ctx, doc)
	if err != nil {
		return nil, err
	}

	slog.Info("Submission published",
		"id", sub.ID,
		"document_id", id,
		"slug", doc.Slug,
		"images_total", rewrite.Stats.Total,
		"images_uploaded", uploaded,
		"images_failed", failed,
		"duration", time.Since(start),
	)

	return &Receipt{
		DocumentID:     id,
		ImagesUploaded: uploaded,
		ImagesFailed:   failed,
	}, nil
}

// hostHero uploads the cover image when one was supplied: an explicit binary
// attachment first, then an explicit hero URL, then the leading image the
// normalizer stripped. A failed hero upload falls back to the content-image
// cover, it never fails the submission.
func (p *Pipeline) hostHero(ctx context.Context, sub domain.ArticleSubmission, strippedHero string) (*domain.UploadedAsset, bool) {
	var src assets.Source

	switch {
	case sub.HeroUpload != nil:
		src = assets.Source{
			Data:     sub.HeroUpload.Data,
			Filename: sub.HeroUpload.Filename,
			MIME:     sub.HeroUpload.MIME,
		}
	case sub.HeroURL != "":
		src = assets.Source{URL: sub.HeroURL}
	case strippedHero != "":
		src = assets.Source{URL: strippedHero}
	default:
		return nil, false
	}

	asset, err := p.transport.FetchAndHost(ctx, src)
	if err != nil {
		slog.Warn("hero image upload failed",
			"id", sub.ID,
			"error", err,
		)
		return nil, true
	}

	return asset, true
}
