// Package router binds the webhook ingress endpoints: a structured JSON
// variant for providers that send pre-formed HTML or Markdown, and a
// freeform variant for plain-text submissions with an optional cover
// attachment.
package router

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/article-publisher/internal/domain"
	"github.com/DjordjeVuckovic/article-publisher/internal/dto"
	"github.com/DjordjeVuckovic/article-publisher/internal/normalizer"
	"github.com/DjordjeVuckovic/article-publisher/internal/pipeline"
	"github.com/DjordjeVuckovic/article-publisher/pkg/stringsutil"
)

// Processor runs one submission through the publishing pipeline.
type Processor interface {
	Process(ctx context.Context, sub domain.ArticleSubmission) (*pipeline.Receipt, error)
}

type WebhookRouter struct {
	e         *echo.Echo
	processor Processor
	providers *Providers
}

func NewWebhookRouter(e *echo.Echo, processor Processor, providers *Providers) *WebhookRouter {
	return &WebhookRouter{
		e:         e,
		processor: processor,
		providers: providers,
	}
}

func (r *WebhookRouter) Bind() {
	g := r.e.Group("/webhooks")
	g.POST("/articles", r.structuredHandler)
	g.POST("/articles/text", r.freeformHandler)
}

// structuredHandler accepts JSON with pre-formed HTML or Markdown content.
// The content is normalized before image rewriting.
func (r *WebhookRouter) structuredHandler(c echo.Context) error {
	provider, ok := r.providers.Authenticate(c.Request().Header.Get("Authorization"))
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or missing bearer token"})
	}

	var body dto.StructuredSubmission
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
	}

	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
	}
	content := body.Content()
	if content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "one of content_html or content_markdown is required"})
	}

	sub := domain.ArticleSubmission{
		ID:              uuid.New(),
		Provider:        provider.Name,
		Title:           body.Title,
		ContentHTML:     content,
		MetaDescription: body.MetaDescription,
		Keywords:        body.Keywords,
		HeroURL:         body.HeroImageURL,
		WithSEO:         true,
		Normalize:       true,
	}

	if body.Test {
		slog.Info("Test submission acknowledged", "id", sub.ID, "provider", provider.Name)
		return c.JSON(http.StatusOK, dto.Ack{ID: sub.ID.String(), Test: true})
	}

	return r.process(c, sub)
}

// freeformHandler accepts multipart form fields Title and Content (plain
// multi-line text) plus an optional Image attachment used as the explicit
// cover. Text is converted to paragraph markup; the normalizer is skipped.
func (r *WebhookRouter) freeformHandler(c echo.Context) error {
	provider, ok := r.providers.Authenticate(c.Request().Header.Get("Authorization"))
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or missing bearer token"})
	}

	title := c.FormValue("Title")
	text := c.FormValue("Content")
	if title == "" || text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title and Content are required"})
	}

	hero, err := readHeroAttachment(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sub := domain.ArticleSubmission{
		ID:          uuid.New(),
		Provider:    provider.Name,
		Title:       title,
		ContentHTML: textToParagraphs(text),
		HeroUpload:  hero,
	}

	return r.process(c, sub)
}

func (r *WebhookRouter) process(c echo.Context, sub domain.ArticleSubmission) error {
	receipt, err := r.processor.Process(c.Request().Context(), sub)
	if err != nil {
		slog.Error("Submission failed",
			"id", sub.ID,
			"provider", sub.Provider,
			"error", err,
		)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, dto.Ack{
		ID:             sub.ID.String(),
		DocumentID:     receipt.DocumentID,
		ImagesUploaded: receipt.ImagesUploaded,
		ImagesFailed:   receipt.ImagesFailed,
	})
}

func readHeroAttachment(c echo.Context) (*domain.HeroUpload, error) {
	header, err := c.FormFile("Image")
	if err != nil {
		// Attachment is optional.
		return nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening image attachment: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading image attachment: %w", err)
	}

	return &domain.HeroUpload{
		Filename: stringsutil.SanitizeFilename(filepath.Base(header.Filename)),
		MIME:     header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// textToParagraphs wraps every non-blank trimmed line in a paragraph and
// joins paragraphs with the section break marker.
func textToParagraphs(text string) string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paragraphs = append(paragraphs, "<p>"+html.EscapeString(line)+"</p>")
	}

	return strings.Join(paragraphs, normalizer.BreakMarker)
}
