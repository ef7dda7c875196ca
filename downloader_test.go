package media_downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/alanbriolat/media-downloader/extractor"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/metadata"
)

type fakeHistory struct {
	results []*media.Result
	err     error
}

func (h *fakeHistory) WriteResult(result *media.Result) error {
	h.results = append(h.results, result)
	return h.err
}

type downloaderFixture struct {
	t        *testing.T
	config   Config
	registry *HostRegistry
	history  *fakeHistory
	urls     []string
	scratch  []string
}

func newDownloaderFixture(t *testing.T) *downloaderFixture {
	root := t.TempDir()
	config := DefaultConfig()
	config.ScratchRoot = filepath.Join(root, "download")
	config.StagingRoot = filepath.Join(root, "downloaded")
	registry := &HostRegistry{}
	registry.MustAdd(Host{Name: "any", Match: prefixMatcher("https://")})
	return &downloaderFixture{t: t, config: config, registry: registry, history: &fakeHistory{}}
}

// downloader returns a Downloader whose extractor writes files into the scratch directory and returns doc.
func (f *downloaderFixture) downloader(doc metadata.Document, files map[string]string, extractErr error) *Downloader {
	fake := extractor.Func(func(ctx context.Context, url string, opts extractor.Options) (metadata.Document, error) {
		f.urls = append(f.urls, url)
		f.scratch = append(f.scratch, opts.OutputDir)
		for name, content := range files {
			require_.NoError(f.t, os.WriteFile(filepath.Join(opts.OutputDir, name), []byte(content), 0644))
		}
		if opts.Progress != nil {
			opts.Progress(1, 2)
		}
		return doc, extractErr
	})
	return NewDownloader(
		f.config,
		WithHostRegistry(f.registry),
		WithExtractor(fake),
		WithHistory(f.history),
		WithLogger(zaptest.NewLogger(f.t)),
	)
}

func (f *downloaderFixture) assertScratchRemoved() {
	for _, dir := range f.scratch {
		assert_.NoDirExists(f.t, dir)
	}
}

func TestDownloadAudioVideo(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)
	f := newDownloaderFixture(t)

	doc := metadata.Document{
		"title":    "Clip",
		"duration": 12.5,
		"__files_to_move": map[string]any{
			"x": "y",
		},
		"requested_downloads": []any{
			map[string]any{
				"ext":       "mp4",
				"filepath":  "clip.mp4",
				"_filename": "clip.mp4",
				"width":     1280,
				"height":    720,
			},
		},
	}
	var progress [][2]int64
	d := f.downloader(doc, map[string]string{
		"clip.mp4": "video",
		"clip.m4a": "audio",
		"clip.jpg": "thumb",
		"clip.txt": "leftover",
	}, nil)
	WithProgress(func(downloaded, expected int64) {
		progress = append(progress, [2]int64{downloaded, expected})
	})(d)

	result, err := d.Download(context.Background(), media.Request{
		URL:            "https://example.com/v",
		MediaType:      media.TypeAudioVideo,
		CustomFilename: "myclip.mp4",
	})
	require.NoError(err)
	defer os.RemoveAll(result.RootPath)

	assert.Equal([]string{"https://example.com/v"}, f.urls)
	assert.Equal([][2]int64{{1, 2}}, progress)
	f.assertScratchRemoved()

	require.NotNil(result.Video)
	assert.Equal("Clip", result.Video.Title)
	assert.Equal("myclip.mp4", result.Video.Filename())
	assert.Equal(int64(5), result.Video.FileSize)
	assert.Equal(1280, result.Video.Width.Unwrap())
	assert.Equal(12.5, result.Video.Duration.Unwrap())
	assert.FileExists(result.Video.Path())
	assert.Equal("clip.jpg", result.Video.ThumbnailFilename.Unwrap())

	require.NotNil(result.Audio)
	assert.Equal("clip.m4a", result.Audio.OriginalFilename)
	assert.FileExists(result.Audio.Path())
	assert.Equal(result.RootPath, result.Audio.DirectoryPath)

	assert.Equal("Clip", result.Metadata["title"])
	assert.NotContains(result.Metadata, "__files_to_move")
	assert.Contains(doc, "__files_to_move")

	assert.Equal([]*media.Result{result}, f.history.results)
}

func TestDownloadHistoryFailureIsIgnored(t *testing.T) {
	f := newDownloaderFixture(t)
	f.history.err = errors.New("disk full")
	doc := metadata.Document{"title": "Song"}

	result, err := f.downloader(doc, map[string]string{"song.m4a": "audio"}, nil).
		Download(context.Background(), media.Request{URL: "https://example.com/a", MediaType: media.TypeAudio})
	require_.NoError(t, err)
	defer os.RemoveAll(result.RootPath)
	assert_.Nil(t, result.Video)
	assert_.Equal(t, "Song", result.Audio.Title)
	assert_.False(t, result.Audio.Duration.IsSome())
}

func TestDownloadNoMetadata(t *testing.T) {
	f := newDownloaderFixture(t)

	for _, doc := range []metadata.Document{nil, {}} {
		_, err := f.downloader(doc, map[string]string{"clip.mp4": "video"}, nil).
			Download(context.Background(), media.Request{URL: "https://example.com/v", MediaType: media.TypeVideo})
		if assert_.ErrorIs(t, err, media.ErrExtraction) {
			assert_.Contains(t, err.Error(), "check logs")
		}
	}
	f.assertScratchRemoved()
}

func TestDownloadNoFiles(t *testing.T) {
	f := newDownloaderFixture(t)

	_, err := f.downloader(metadata.Document{"title": "x"}, nil, nil).
		Download(context.Background(), media.Request{URL: "https://example.com/v", MediaType: media.TypeVideo})
	if assert_.ErrorIs(t, err, media.ErrExtraction) {
		assert_.Contains(t, err.Error(), "nothing downloaded")
	}
	f.assertScratchRemoved()
}

func TestDownloadExtractorFailure(t *testing.T) {
	f := newDownloaderFixture(t)

	failure := errors.New("exit status 1")
	_, err := f.downloader(nil, map[string]string{"part.mp4.part": "x"}, failure).
		Download(context.Background(), media.Request{URL: "https://example.com/v", MediaType: media.TypeVideo})
	assert_.Same(t, failure, err)
	assert_.NotErrorIs(t, err, media.ErrExtraction)
	f.assertScratchRemoved()
	assert_.Empty(t, f.history.results)
}

func TestDownloadExtractorCancelled(t *testing.T) {
	f := newDownloaderFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.downloader(nil, nil, ctx.Err()).
		Download(ctx, media.Request{URL: "https://example.com/v", MediaType: media.TypeAudio})
	assert_.ErrorIs(t, err, context.Canceled)
	assert_.NotErrorIs(t, err, media.ErrExtraction)
	f.assertScratchRemoved()
}

func TestDownloadResolveFailureRemovesEverything(t *testing.T) {
	f := newDownloaderFixture(t)
	doc := metadata.Document{
		"title":               "Clip",
		"requested_downloads": []any{map[string]any{"ext": "mp4", "filepath": "clip.mp4"}},
	}

	_, err := f.downloader(doc, map[string]string{"clip.mp4": "video"}, nil).
		Download(context.Background(), media.Request{URL: "https://example.com/v", MediaType: media.TypeAudioVideo})
	assert_.ErrorIs(t, err, os.ErrNotExist)
	f.assertScratchRemoved()

	entries, err := os.ReadDir(f.config.StagingDir())
	require_.NoError(t, err)
	assert_.Empty(t, entries)
}

func TestDownloadNoHost(t *testing.T) {
	f := newDownloaderFixture(t)

	_, err := f.downloader(nil, nil, nil).
		Download(context.Background(), media.Request{URL: "ftp://example.com/v", MediaType: media.TypeVideo})
	assert_.ErrorIs(t, err, ErrNoMatch)
	assert_.Empty(t, f.urls)

	_, err = f.downloader(nil, nil, nil).
		Download(context.Background(), media.Request{URL: "https://example.com/v", MediaType: "bogus"})
	assert_.ErrorIs(t, err, media.ErrContractViolation)
}

func TestLoggerFromContext(t *testing.T) {
	fallback := zaptest.NewLogger(t)
	other := zaptest.NewLogger(t)

	assert_.Same(t, fallback, LoggerFrom(context.Background(), fallback))
	assert_.Same(t, other, LoggerFrom(ContextWithLogger(context.Background(), other), fallback))
}
