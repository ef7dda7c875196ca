// Package direct matches URLs that point straight at a media file, which yt-dlp fetches with its generic extractor.
package direct

import (
	"fmt"
	"path"
	"strings"

	"github.com/alanbriolat/media-downloader"
	"github.com/alanbriolat/media-downloader/extractor"
	"github.com/alanbriolat/media-downloader/generic"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/util"
	"github.com/alanbriolat/media-downloader/ytdlopts"
)

const Name = "direct"

type Config struct {
	Extensions generic.Set[string]
}

func NewConfig() Config {
	return Config{
		Extensions: generic.NewSet(
			"flv",
			"m4a",
			"m4v",
			"mkv",
			"mp3",
			"mp4",
			"webm",
		),
	}
}

func (c *Config) Match(s string) (media_downloader.HostConfig, error) {
	parsed, err := util.ParseHTTPURL(s)
	if err != nil {
		return nil, err
	}
	extension := strings.TrimPrefix(strings.ToLower(path.Ext(parsed.Path)), ".")
	if extension == "" {
		return nil, fmt.Errorf("no file extension found")
	}
	if !c.Extensions.Contains(extension) {
		return nil, fmt.Errorf("unknown file extension %v", extension)
	}
	return &source{url: parsed.String()}, nil
}

func (c Config) Host() media_downloader.Host {
	// Just ahead of the generic host, so that anything more specific wins.
	return media_downloader.Host{Name: Name, Match: c.Match, Priority: media_downloader.PriorityLowest - 1}
}

type source struct {
	url string
}

func (s *source) URL() string {
	return s.url
}

func (s *source) BuildOptions(mediaType media.Type, scratchDir string, formats ytdlopts.FormatConfig) (extractor.Options, error) {
	opts, err := ytdlopts.Build(formats, mediaType, scratchDir)
	if err != nil {
		return opts, err
	}
	opts.Args = append(opts.Args, "--force-generic-extractor")
	return opts, nil
}

func init() {
	media_downloader.DefaultHostRegistry.MustAdd(NewConfig().Host())
}
