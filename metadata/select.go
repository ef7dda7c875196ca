package metadata

import (
	"path/filepath"

	"github.com/r3labs/diff/v3"

	"github.com/alanbriolat/media-downloader/media"
)

// A VideoMatcher is one rule for picking the video out of the requested downloads.
type VideoMatcher struct {
	Name string
	// Match reports whether d is the video file, given the extension audio is converted to.
	Match func(d Descriptor, audioExt string) bool
	// Normalize fills in Filepath on the selected descriptor, which is always a copy.
	Normalize func(d Descriptor) Descriptor
}

// VideoMatchers are tried in order, each over every descriptor, and the first hit wins.
var VideoMatchers = []VideoMatcher{
	{
		// The usual case: audio and video are separate descriptors, and the video is whichever is not audio.
		Name: "separate-video-track",
		Match: func(d Descriptor, audioExt string) bool {
			return d.Ext != audioExt
		},
		// yt-dlp populates these inconsistently between versions.
		Normalize: func(d Descriptor) Descriptor {
			d.Filepath = d.Filepath.Or(d.Filename).Or(d.InternalFilename)
			return d
		},
	},
	{
		// The video was converted to audio with the original kept, so every descriptor claims the audio extension.
		// The kept video is the one whose internal filename still has a different extension; its filepath points at
		// the converted audio and is ignored.
		Name: "video-kept-after-audio-conversion",
		Match: func(d Descriptor, _ string) bool {
			ext, ok := d.InternalExt().Get()
			return ok && d.Ext != ext
		},
		Normalize: func(d Descriptor) Descriptor {
			d.Filepath = d.Filename.Or(d.InternalFilename)
			return d
		},
	},
}

// Selection is the descriptor chosen as the video. Descriptor is normalized; Original is as parsed.
type Selection struct {
	Matcher    string
	Descriptor Descriptor
	Original   Descriptor
}

// Filepath is the normalized path of the selected video.
func (s *Selection) Filepath() string {
	return s.Descriptor.Filepath.UnwrapOrDefault()
}

// Filename is the final path segment of Filepath.
func (s *Selection) Filename() string {
	return filepath.Base(s.Filepath())
}

// Changes lists fields normalization altered, for logging.
func (s *Selection) Changes() diff.Changelog {
	changes, err := diff.Diff(pathFields(s.Original), pathFields(s.Descriptor))
	if err != nil {
		return nil
	}
	return changes
}

// SelectVideo picks the video descriptor. It fails with media.ErrVideoPathNotFound if no matcher accepts any
// descriptor, or if the accepted descriptor has no path at all.
func SelectVideo(downloads []Descriptor, audioExt string) (*Selection, error) {
	for _, m := range VideoMatchers {
		for _, d := range downloads {
			if !m.Match(d, audioExt) {
				continue
			}
			selected := &Selection{
				Matcher:    m.Name,
				Descriptor: m.Normalize(d),
				Original:   d,
			}
			if selected.Descriptor.Filepath.IsNone() {
				return nil, media.ErrVideoPathNotFound
			}
			return selected, nil
		}
	}
	return nil, media.ErrVideoPathNotFound
}

func pathFields(d Descriptor) map[string]string {
	return map[string]string{
		"filepath":  d.Filepath.UnwrapOrDefault(),
		"filename":  d.Filename.UnwrapOrDefault(),
		"_filename": d.InternalFilename.UnwrapOrDefault(),
	}
}

// SelectVideo is SelectVideo over the entry's requested downloads.
func (e *Entry) SelectVideo(audioExt string) (*Selection, error) {
	return SelectVideo(e.RequestedDownloads, audioExt)
}
