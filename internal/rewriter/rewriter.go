// Package rewriter re-hosts every externally referenced image in a document
// and points the content at the new copies. Individual images fail soft; the
// document is rewritten with whatever succeeded.
package rewriter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/DjordjeVuckovic/article-publisher/internal/assets"
	"github.com/DjordjeVuckovic/article-publisher/internal/domain"
	"github.com/DjordjeVuckovic/article-publisher/pkg/stringsutil"
)

const defaultWorkers = 4

// Hoster re-hosts one image into the CMS.
type Hoster interface {
	FetchAndHost(ctx context.Context, src assets.Source) (*domain.UploadedAsset, error)
}

type Rewriter struct {
	transport Hoster
	cmsBase   string
	workers   int
}

type Option func(*Rewriter)

// WithWorkers bounds the number of concurrent image fetches per document.
func WithWorkers(n int) Option {
	return func(r *Rewriter) {
		if n > 0 {
			r.workers = n
		}
	}
}

func New(transport Hoster, cmsBase string, opts ...Option) *Rewriter {
	r := &Rewriter{
		transport: transport,
		cmsBase:   strings.TrimSuffix(cmsBase, "/"),
		workers:   defaultWorkers,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type job struct {
	idx      int
	src      string
	filename string
	sel      *goquery.Selection
}

// Rewrite enumerates all images with an absolute http(s) src, re-hosts each
// one and rewrites the src to the CMS copy. Relative and data URLs are left
// untouched and excluded from the stats. Fetches fan out across a bounded
// worker pool; the rewrite itself is applied after the pool drains, strictly
// in document order.
func (r *Rewriter) Rewrite(ctx context.Context, html string) (*domain.RewriteResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	stamp := time.Now().UnixMilli()

	var jobs []job
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || !isAbsoluteHTTP(src) {
			return
		}

		idx := len(jobs)
		jobs = append(jobs, job{
			idx:      idx,
			src:      src,
			filename: deriveFilename(src, stamp, idx),
			sel:      sel,
		})
	})

	results := make([]*domain.UploadedAsset, len(jobs))
	if len(jobs) > 0 {
		r.fanOut(ctx, jobs, results)
	}

	result := &domain.RewriteResult{
		Stats: domain.RewriteStats{Total: len(jobs)},
	}

	for _, j := range jobs {
		asset := results[j.idx]
		if asset == nil {
			result.Stats.Failed++
			continue
		}

		j.sel.SetAttr("src", r.cmsBase+asset.URL)
		result.Assets = append(result.Assets, *asset)
		result.Stats.Success++
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return nil, fmt.Errorf("serializing HTML: %w", err)
	}
	result.HTML = out

	return result, nil
}

// fanOut runs fetch+upload for every job on a bounded pool. Each worker
// writes only its own result slot, so no synchronization beyond the
// WaitGroup is needed and the caller observes results in document order.
func (r *Rewriter) fanOut(ctx context.Context, jobs []job, results []*domain.UploadedAsset) {
	workers := r.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	queue := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				asset, err := r.transport.FetchAndHost(ctx, assets.Source{
					URL:      j.src,
					Filename: j.filename,
				})
				if err != nil {
					slog.Warn("image re-host failed, keeping original src",
						"src", j.src,
						"error", err,
					)
					continue
				}
				results[j.idx] = asset
			}
		}()
	}

	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	wg.Wait()
}

func isAbsoluteHTTP(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// deriveFilename builds a CMS asset name from the URL's last path segment.
// The timestamp+index prefix keeps names unique within the document and
// across concurrent submissions.
func deriveFilename(rawURL string, stamp int64, idx int) string {
	name := ""
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	if name == "." || name == "/" {
		name = ""
	}

	name = stringsutil.SanitizeFilename(name)
	if name == "" {
		name = "image"
	}
	if path.Ext(name) == "" {
		name += ".jpg"
	}

	return fmt.Sprintf("%d-%d-%s", stamp, idx, name)
}
