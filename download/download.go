// Package download manages the scratch directory that one extraction attempt writes into.
package download

import (
	"os"

	"go.uber.org/zap"

	"github.com/alanbriolat/media-downloader/util"
)

const DefaultScratchPrefix = "tmp_media_dir-"

type scratchConfig struct {
	baseDir string
	prefix  string
	log     *zap.SugaredLogger
}

type ScratchOption func(*scratchConfig)

// WithBaseDir sets where scratch directories are created; it is created if missing. Defaults to os.TempDir().
func WithBaseDir(dir string) ScratchOption {
	return func(c *scratchConfig) {
		c.baseDir = dir
	}
}

func WithPrefix(prefix string) ScratchOption {
	return func(c *scratchConfig) {
		c.prefix = prefix
	}
}

func WithLogger(logger *zap.Logger) ScratchOption {
	return func(c *scratchConfig) {
		if logger != nil {
			c.log = logger.Sugar()
		}
	}
}

// Scratch is a uniquely named directory owned by a single WithScratch call.
type Scratch struct {
	path string
}

func (s *Scratch) Path() string {
	return s.path
}

// Files returns the sorted names of regular files in the scratch directory.
func (s *Scratch) Files() ([]string, error) {
	return util.ListFiles(s.path)
}

func newScratch(config scratchConfig) (*Scratch, error) {
	if err := os.MkdirAll(config.baseDir, 0755); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp(config.baseDir, config.prefix+"*")
	if err != nil {
		return nil, err
	}
	return &Scratch{path: dir}, nil
}

func (s *Scratch) close(log *zap.SugaredLogger) {
	if err := util.RemoveDir(s.path); err != nil {
		log.Warnf("Failed to remove scratch directory %q: %v", s.path, err)
	}
}

// WithScratch creates a scratch directory, runs f with it, and removes it recursively whatever f returns.
func WithScratch(f func(scratch *Scratch) error, opts ...ScratchOption) error {
	config := scratchConfig{
		baseDir: os.TempDir(),
		prefix:  DefaultScratchPrefix,
		log:     zap.S().Named("scratch"),
	}
	for _, opt := range opts {
		opt(&config)
	}
	scratch, err := newScratch(config)
	if err != nil {
		return err
	}
	defer scratch.close(config.log)
	return f(scratch)
}
