package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/article-publisher/internal/assets"
	"github.com/DjordjeVuckovic/article-publisher/internal/domain"
	"github.com/DjordjeVuckovic/article-publisher/internal/normalizer"
	"github.com/DjordjeVuckovic/article-publisher/internal/publisher"
)

type fakeRewriter struct {
	gotHTML string
	result  *domain.RewriteResult
}

func (f *fakeRewriter) Rewrite(_ context.Context, html string) (*domain.RewriteResult, error) {
	f.gotHTML = html
	if f.result != nil {
		return f.result, nil
	}
	return &domain.RewriteResult{HTML: html}, nil
}

type fakeHoster struct {
	got   *assets.Source
	asset *domain.UploadedAsset
	err   error
}

func (f *fakeHoster) FetchAndHost(_ context.Context, src assets.Source) (*domain.UploadedAsset, error) {
	f.got = &src
	return f.asset, f.err
}

type fakeCreator struct {
	doc domain.Document
	id  int
	err error
}

func (f *fakeCreator) CreateDocument(_ context.Context, doc domain.Document) (int, error) {
	f.doc = doc
	return f.id, f.err
}

func newPipeline(rw *fakeRewriter, hoster *fakeHoster, creator *fakeCreator) *Pipeline {
	return New(normalizer.New(), rw, hoster, publisher.New(creator))
}

func TestProcess_NormalizesBeforeRewriting(t *testing.T) {
	rw := &fakeRewriter{}
	hoster := &fakeHoster{asset: &domain.UploadedAsset{ID: 10}}
	creator := &fakeCreator{id: 1}
	p := newPipeline(rw, hoster, creator)

	sub := domain.ArticleSubmission{
		ID:          uuid.New(),
		Title:       "T",
		ContentHTML: `<h1>T</h1><img src="http://h/hero.jpg"/><p>body</p>`,
		Normalize:   true,
	}

	receipt, err := p.Process(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, `<p>body</p>`, rw.gotHTML, "normalizer runs before the rewriter")

	// The stripped leading image is re-hosted and becomes the cover.
	require.NotNil(t, hoster.got)
	assert.Equal(t, "http://h/hero.jpg", hoster.got.URL)
	require.NotNil(t, creator.doc.Cover)
	assert.Equal(t, 10, creator.doc.Cover.ID)
	assert.Equal(t, 1, receipt.ImagesUploaded)
}

func TestProcess_SkipsNormalizerForFreeform(t *testing.T) {
	rw := &fakeRewriter{}
	p := newPipeline(rw, &fakeHoster{}, &fakeCreator{id: 1})

	sub := domain.ArticleSubmission{
		ID:          uuid.New(),
		Title:       "T",
		ContentHTML: `<p>line one</p><br/><p>line two</p>`,
	}

	_, err := p.Process(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, sub.ContentHTML, rw.gotHTML)
}

func TestProcess_HeroUploadBecomesCover(t *testing.T) {
	rw := &fakeRewriter{result: &domain.RewriteResult{
		HTML:   "<p>b</p>",
		Assets: []domain.UploadedAsset{{ID: 20}},
		Stats:  domain.RewriteStats{Total: 1, Success: 1},
	}}
	hoster := &fakeHoster{asset: &domain.UploadedAsset{ID: 10}}
	creator := &fakeCreator{id: 5}
	p := newPipeline(rw, hoster, creator)

	sub := domain.ArticleSubmission{
		ID:          uuid.New(),
		Title:       "T",
		ContentHTML: "<p>b</p>",
		HeroUpload: &domain.HeroUpload{
			Filename: "cover.png",
			MIME:     "image/png",
			Data:     []byte{0x89, 0x50, 0x4E, 0x47},
		},
	}

	receipt, err := p.Process(context.Background(), sub)
	require.NoError(t, err)

	require.NotNil(t, hoster.got)
	assert.Empty(t, hoster.got.URL, "attachments are uploaded directly, never fetched")
	assert.Equal(t, "cover.png", hoster.got.Filename)

	require.NotNil(t, creator.doc.Cover)
	assert.Equal(t, 10, creator.doc.Cover.ID, "explicit hero beats content images")
	assert.Equal(t, 2, receipt.ImagesUploaded, "hero counts alongside content images")
}

func TestProcess_FailedHeroFallsBackToContentImage(t *testing.T) {
	rw := &fakeRewriter{result: &domain.RewriteResult{
		HTML:   "<p>b</p>",
		Assets: []domain.UploadedAsset{{ID: 20}},
		Stats:  domain.RewriteStats{Total: 1, Success: 1},
	}}
	hoster := &fakeHoster{err: errors.New("upload failed")}
	creator := &fakeCreator{id: 5}
	p := newPipeline(rw, hoster, creator)

	sub := domain.ArticleSubmission{
		ID:          uuid.New(),
		Title:       "T",
		ContentHTML: "<p>b</p>",
		HeroURL:     "http://h/hero.jpg",
	}

	_, err := p.Process(context.Background(), sub)
	require.NoError(t, err, "a failed hero upload never fails the submission")

	require.NotNil(t, creator.doc.Cover)
	assert.Equal(t, 20, creator.doc.Cover.ID)
}

func TestProcess_AllImagesFailedStillPublishes(t *testing.T) {
	rw := &fakeRewriter{result: &domain.RewriteResult{
		HTML:  `<img src="http://h/one.jpg"/>`,
		Stats: domain.RewriteStats{Total: 2, Failed: 2},
	}}
	creator := &fakeCreator{id: 9}
	p := newPipeline(rw, &fakeHoster{}, creator)

	sub := domain.ArticleSubmission{ID: uuid.New(), Title: "T", ContentHTML: "<p>b</p>"}

	receipt, err := p.Process(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, 9, receipt.DocumentID)
	assert.Equal(t, 0, receipt.ImagesUploaded)
	assert.Equal(t, 2, receipt.ImagesFailed)
	assert.Nil(t, creator.doc.Cover)
}

func TestProcess_CreationFailureAborts(t *testing.T) {
	creator := &fakeCreator{err: errors.New("cms rejected document")}
	p := newPipeline(&fakeRewriter{}, &fakeHoster{}, creator)

	sub := domain.ArticleSubmission{ID: uuid.New(), Title: "T", ContentHTML: "<p>b</p>"}

	receipt, err := p.Process(context.Background(), sub)

	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.ErrorContains(t, err, "cms rejected document")
}
