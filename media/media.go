// Package media holds the types describing a download request and the files it produced.
package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alanbriolat/media-downloader/generic"
)

type Type string

const (
	TypeAudio      Type = "audio"
	TypeVideo      Type = "video"
	TypeAudioVideo Type = "audio_video"
)

var validTypes = generic.NewSet(TypeAudio, TypeVideo, TypeAudioVideo)

// ParseType accepts the canonical names case-insensitively, with "-" allowed in place of "_".
func ParseType(s string) (Type, error) {
	t := Type(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !validTypes.Contains(t) {
		return "", fmt.Errorf("%w: unknown media type %q", ErrContractViolation, s)
	}
	return t, nil
}

func (t Type) IsValid() bool {
	return validTypes.Contains(t)
}

// WantsAudio is true for TypeAudio and TypeAudioVideo.
func (t Type) WantsAudio() bool {
	return t == TypeAudio || t == TypeAudioVideo
}

// WantsVideo is true for TypeVideo and TypeAudioVideo.
func (t Type) WantsVideo() bool {
	return t == TypeVideo || t == TypeAudioVideo
}

func (t Type) String() string {
	return string(t)
}

// Request is what a caller asks to have downloaded.
type Request struct {
	URL       string
	MediaType Type
	// Rename the video to this filename in the staging directory. Ignored for audio.
	CustomFilename string
}

type Audio struct {
	Title            string                  `json:"title"`
	OriginalFilename string                  `json:"original_filename"`
	Duration         generic.Option[float64] `json:"duration"`
	DirectoryPath    string                  `json:"directory_path"`
	FileSize         int64                   `json:"file_size"`
}

// Path is the location of the audio file in the staging directory.
func (a *Audio) Path() string {
	return filepath.Join(a.DirectoryPath, a.OriginalFilename)
}

type Video struct {
	Title            string                  `json:"title"`
	OriginalFilename string                  `json:"original_filename"`
	CustomFilename   generic.Option[string]  `json:"custom_filename"`
	Duration         generic.Option[float64] `json:"duration"`
	// RawDuration carries the metadata value when it could not be read as a number.
	RawDuration       any                    `json:"raw_duration,omitempty"`
	Width             generic.Option[int]    `json:"width"`
	Height            generic.Option[int]    `json:"height"`
	DirectoryPath     string                 `json:"directory_path"`
	FileSize          int64                  `json:"file_size"`
	ThumbnailPath     generic.Option[string] `json:"thumbnail_path"`
	ThumbnailFilename generic.Option[string] `json:"thumbnail_filename"`
}

// Filename is the name of the video file in the staging directory.
func (v *Video) Filename() string {
	return v.CustomFilename.UnwrapOr(v.OriginalFilename)
}

// Path is the location of the video file in the staging directory.
func (v *Video) Path() string {
	return filepath.Join(v.DirectoryPath, v.Filename())
}

// Result describes a completed download. The caller owns RootPath and is responsible for removing it.
type Result struct {
	MediaType Type           `json:"media_type"`
	Audio     *Audio         `json:"audio,omitempty"`
	Video     *Video         `json:"video,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	RootPath  string         `json:"root_path"`
}

// Validate checks that Audio and Video are present exactly when MediaType asks for them.
func (r *Result) Validate() error {
	if !r.MediaType.IsValid() {
		return fmt.Errorf("%w: unknown media type %q", ErrContractViolation, r.MediaType)
	}
	if r.MediaType.WantsAudio() != (r.Audio != nil) {
		return fmt.Errorf("%w: audio presence does not match media type %s", ErrContractViolation, r.MediaType)
	}
	if r.MediaType.WantsVideo() != (r.Video != nil) {
		return fmt.Errorf("%w: video presence does not match media type %s", ErrContractViolation, r.MediaType)
	}
	return nil
}
