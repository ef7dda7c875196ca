// Package youtube normalizes YouTube URLs to a canonical watch URL or playlist URL.
package youtube

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/alanbriolat/media-downloader"
	"github.com/alanbriolat/media-downloader/extractor"
	"github.com/alanbriolat/media-downloader/generic"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/util"
	"github.com/alanbriolat/media-downloader/ytdlopts"
)

const Name = "youtube"

var hostnames = generic.NewSet(
	"youtube.com",
	"m.youtube.com",
	"music.youtube.com",
	"youtube-nocookie.com",
	"youtu.be",
)

var pathPrefixes = []string{"/v/", "/embed/", "/shorts/", "/live/"}

type video struct {
	videoID string
}

func (v *video) URL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.videoID)
}

func (v *video) BuildOptions(mediaType media.Type, scratchDir string, formats ytdlopts.FormatConfig) (extractor.Options, error) {
	opts, err := ytdlopts.Build(formats, mediaType, scratchDir)
	if err != nil {
		return opts, err
	}
	// A watch URL with &list= would otherwise fetch the whole playlist.
	opts.Args = append(opts.Args, "--no-playlist")
	return opts, nil
}

type playlist struct {
	listID string
}

func (p *playlist) URL() string {
	return "https://www.youtube.com/playlist?list=" + url.QueryEscape(p.listID)
}

func (p *playlist) BuildOptions(mediaType media.Type, scratchDir string, formats ytdlopts.FormatConfig) (extractor.Options, error) {
	opts, err := ytdlopts.Build(formats, mediaType, scratchDir)
	if err != nil {
		return opts, err
	}
	// Only the first entry is ever resolved.
	opts.Args = append(opts.Args, "--playlist-items", "1")
	return opts, nil
}

// Match accepts:
//		http(s?)://(www|m|music).youtube.com/(watch|details)?v={VIDEO_ID}
//		http(s?)://(www|m|music).youtube.com/(v|embed|shorts|live)/{VIDEO_ID}
//		http(s?)://(www|m|music).youtube.com/playlist?list={LIST_ID}
//		http(s?)://youtu.be/{VIDEO_ID}
func Match(s string) (media_downloader.HostConfig, error) {
	hostname, err := util.Hostname(s)
	if err != nil {
		return nil, err
	}
	if !hostnames.Contains(hostname) {
		return nil, fmt.Errorf("unrecognised hostname")
	}
	parsed, err := util.ParseHTTPURL(s)
	if err != nil {
		return nil, err
	}
	if parsed.Path == "/playlist" {
		if listID := parsed.Query().Get("list"); listID != "" {
			return &playlist{listID: listID}, nil
		}
		return nil, fmt.Errorf("missing ?list= query parameter")
	}
	rawID, err := extractVideoID(hostname, parsed)
	if err != nil {
		return nil, err
	}
	videoID, err := youtube.ExtractVideoID(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid video ID %q: %w", rawID, err)
	}
	return &video{videoID: videoID}, nil
}

func extractVideoID(hostname string, u *url.URL) (string, error) {
	var id string
	if hostname == "youtu.be" {
		id = strings.Trim(u.Path, "/")
	} else if u.Path == "/watch" || u.Path == "/details" {
		if !u.Query().Has("v") {
			return "", fmt.Errorf("missing ?v= query parameter")
		}
		id = u.Query().Get("v")
	} else {
		for _, prefix := range pathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				id = strings.SplitN(strings.TrimPrefix(u.Path, prefix), "/", 2)[0]
				break
			}
		}
	}
	if id == "" {
		return "", fmt.Errorf("could not extract video ID")
	}
	return id, nil
}

func New() media_downloader.Host {
	return media_downloader.Host{Name: Name, Match: Match}
}

func init() {
	media_downloader.DefaultHostRegistry.MustAdd(New())
}
