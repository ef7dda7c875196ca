// Package extractor runs the external tool that fetches media and describes what it fetched.
package extractor

import (
	"context"

	"github.com/alanbriolat/media-downloader/metadata"
)

// ProgressFunc receives byte counts as the tool reports them. expected is 0 while unknown.
type ProgressFunc func(downloaded int64, expected int64)

// Options configure one extraction. They are built per site by a host configuration.
type Options struct {
	// OutputDir is where the tool must write its files.
	OutputDir string
	// Args are passed to the tool before the URL.
	Args     []string
	Progress ProgressFunc
}

// An Extractor downloads url into opts.OutputDir and returns the tool's metadata document. A nil document with a nil
// error means the tool finished without describing anything.
type Extractor interface {
	Extract(ctx context.Context, url string, opts Options) (metadata.Document, error)
}

// Func adapts a plain function to the Extractor interface.
type Func func(ctx context.Context, url string, opts Options) (metadata.Document, error)

func (f Func) Extract(ctx context.Context, url string, opts Options) (metadata.Document, error) {
	return f(ctx, url, opts)
}
