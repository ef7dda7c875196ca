// Package generic hands any http(s) URL to yt-dlp unchanged, leaving site detection to yt-dlp itself.
package generic

import (
	"github.com/alanbriolat/media-downloader"
	"github.com/alanbriolat/media-downloader/extractor"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/util"
	"github.com/alanbriolat/media-downloader/ytdlopts"
)

const Name = "generic"

type config struct {
	url string
}

func (c *config) URL() string {
	return c.url
}

func (c *config) BuildOptions(mediaType media.Type, scratchDir string, formats ytdlopts.FormatConfig) (extractor.Options, error) {
	return ytdlopts.Build(formats, mediaType, scratchDir)
}

func Match(s string) (media_downloader.HostConfig, error) {
	parsed, err := util.ParseHTTPURL(s)
	if err != nil {
		return nil, err
	}
	return &config{url: parsed.String()}, nil
}

func New() media_downloader.Host {
	return media_downloader.Host{Name: Name, Match: Match, Priority: media_downloader.PriorityLowest}
}

func init() {
	media_downloader.DefaultHostRegistry.MustAdd(New())
}
