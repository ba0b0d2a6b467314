// Package cms is a thin client for a headless CMS exposing a multipart
// asset-upload endpoint and a JSON document-creation endpoint, both behind
// bearer authentication.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/DjordjeVuckovic/article-publisher/internal/domain"
)

type Client struct {
	httpClient *http.Client
	cfg        *Config
}

func NewClient(cfg *Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// BaseURL is the public root used to absolutize asset URLs in rewritten
// content.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

type uploadedFile struct {
	ID   int    `json:"id"`
	URL  string `json:"url"`
	Mime string `json:"mime"`
}

// UploadAsset submits one binary file to the asset endpoint and returns the
// first created asset record.
func (c *Client) UploadAsset(ctx context.Context, filename, mimeType string, data []byte) (*domain.UploadedAsset, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating multipart field: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing multipart field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading asset %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asset upload returned status %d", resp.StatusCode)
	}

	var files []uploadedFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("upload response contained no files")
	}

	first := files[0]
	return &domain.UploadedAsset{
		ID:   first.ID,
		URL:  first.URL,
		MIME: first.Mime,
	}, nil
}

type documentPayload struct {
	Data documentData `json:"data"`
}

type documentData struct {
	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Content string   `json:"content"`
	Cover   *int     `json:"cover,omitempty"`
	SEO     *seoData `json:"seo,omitempty"`
}

type seoData struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	Keywords        string `json:"keywords"`
	MetaImage       *int   `json:"metaImage,omitempty"`
}

type createdDocument struct {
	Data struct {
		ID int `json:"id"`
	} `json:"data"`
}

// CreateDocument submits the assembled document and returns the created
// record's id. This is a single atomic call: a non-2xx response leaves no
// document behind.
func (c *Client) CreateDocument(ctx context.Context, doc domain.Document) (int, error) {
	payload := documentPayload{
		Data: documentData{
			Title:   doc.Title,
			Slug:    doc.Slug,
			Content: doc.Content,
		},
	}
	if doc.Cover != nil {
		payload.Data.Cover = &doc.Cover.ID
	}
	if doc.SEO != nil {
		seo := seoData{
			MetaTitle:       doc.SEO.MetaTitle,
			MetaDescription: doc.SEO.MetaDescription,
			Keywords:        doc.SEO.Keywords,
		}
		if doc.SEO.MetaImageID != 0 {
			id := doc.SEO.MetaImageID
			seo.MetaImage = &id
		}
		payload.Data.SEO = &seo
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encoding document payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/%s", c.cfg.BaseURL, c.cfg.Collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return 0, fmt.Errorf("creating document request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("creating document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return 0, fmt.Errorf("document creation returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var created createdDocument
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("decoding document response: %w", err)
	}

	return created.Data.ID, nil
}

// Healthy reports whether the CMS root answers at all. Any HTTP response
// counts; only transport errors fail the probe.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return true
}
