package media_downloader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alanbriolat/media-downloader/download"
	"github.com/alanbriolat/media-downloader/extractor"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/metadata"
	"github.com/alanbriolat/media-downloader/resolve"
	"github.com/alanbriolat/media-downloader/util"
)

// History records successful downloads.
type History interface {
	WriteResult(result *media.Result) error
}

type Option func(*Downloader)

func WithHostRegistry(registry *HostRegistry) Option {
	return func(d *Downloader) {
		d.hosts = registry
	}
}

// WithExtractor replaces the yt-dlp extractor, mostly for tests.
func WithExtractor(e extractor.Extractor) Option {
	return func(d *Downloader) {
		d.extractor = e
	}
}

func WithHistory(h History) Option {
	return func(d *Downloader) {
		d.history = h
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithProgress receives byte progress for every download.
func WithProgress(f extractor.ProgressFunc) Option {
	return func(d *Downloader) {
		d.progress = f
	}
}

// Downloader turns a media.Request into staged files plus sanitized metadata.
type Downloader struct {
	config    Config
	hosts     *HostRegistry
	extractor extractor.Extractor
	history   History
	progress  extractor.ProgressFunc
	logger    *zap.Logger
}

func NewDownloader(config Config, opts ...Option) *Downloader {
	d := &Downloader{
		config: config,
		hosts:  &DefaultHostRegistry,
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.extractor == nil {
		d.extractor = extractor.NewYtDlp(config.YtDlpPath, d.logger)
	}
	return d
}

// Download runs one extraction in a fresh scratch directory and resolves what it produced. On success the caller owns
// Result.RootPath. The scratch directory is always removed, and any failure is logged along with the URL.
func (d *Downloader) Download(ctx context.Context, req media.Request) (*media.Result, error) {
	log := LoggerFrom(ctx, d.logger).Sugar().Named("downloader")
	result, err := d.download(ctx, log, req)
	if err != nil {
		log.Errorw(fmt.Sprintf("Failed to download %s", req.URL), "error", err)
		return nil, err
	}
	if d.history != nil {
		if err := d.history.WriteResult(result); err != nil {
			log.Warnw("Failed to record download history", "url", req.URL, "error", err)
		}
	}
	return result, nil
}

func (d *Downloader) download(ctx context.Context, log *zap.SugaredLogger, req media.Request) (result *media.Result, err error) {
	if !req.MediaType.IsValid() {
		return nil, fmt.Errorf("%w: unknown media type %q", media.ErrContractViolation, req.MediaType)
	}
	match, err := d.hosts.Match(req.URL)
	if err != nil {
		return nil, err
	}
	log.Infof("Downloading %s as %s via host %q", match.Config.URL(), req.MediaType, match.HostName)

	resolver := resolve.New(d.config.resolveConfig(), log.Desugar())
	err = download.WithScratch(func(scratch *download.Scratch) error {
		opts, err := match.Config.BuildOptions(req.MediaType, scratch.Path(), d.config.Formats)
		if err != nil {
			return err
		}
		opts.Progress = d.progress

		doc, err := d.extractor.Extract(ctx, match.Config.URL(), opts)
		if err != nil {
			return err
		}
		if len(doc) == 0 {
			return fmt.Errorf("%w: error during media download, check logs", media.ErrExtraction)
		}
		files, err := scratch.Files()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("%w: nothing downloaded, is URL valid?", media.ErrExtraction)
		}
		sanitized := metadata.Sanitize(doc)
		log.Debugf("Scratch directory %q contains: %s", scratch.Path(), util.ListFilesHuman(scratch.Path()))

		resolution, err := resolver.Resolve(req.MediaType, doc, scratch.Path(), req.CustomFilename)
		if err != nil {
			return err
		}
		if leftovers, err := scratch.Files(); err == nil && len(leftovers) > 0 {
			log.Debugf("Discarding unused files: %s", util.ListFilesHuman(scratch.Path()))
		}
		result = &media.Result{
			MediaType: req.MediaType,
			Audio:     resolution.Audio,
			Video:     resolution.Video,
			Metadata:  sanitized,
			RootPath:  resolution.RootPath,
		}
		if err := result.Validate(); err != nil {
			_ = util.RemoveDir(resolution.RootPath)
			return err
		}
		return nil
	}, download.WithBaseDir(d.config.ScratchDir()), download.WithLogger(log.Desugar()))
	if err != nil {
		return nil, err
	}
	return result, nil
}
