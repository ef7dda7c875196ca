// Package ytdlopts builds the yt-dlp arguments shared by every host.
package ytdlopts

import (
	"fmt"

	"github.com/alanbriolat/media-downloader/extractor"
	"github.com/alanbriolat/media-downloader/media"
)

// FormatConfig controls the final formats of downloaded files. The resolver finds audio and thumbnail files by these
// same extensions, so they must be what yt-dlp actually writes.
type FormatConfig struct {
	AudioFormat     string `yaml:"audio_format" env:"MEDIA_DOWNLOADER_AUDIO_FORMAT" env-default:"m4a"`
	ThumbnailFormat string `yaml:"thumbnail_format" env:"MEDIA_DOWNLOADER_THUMBNAIL_FORMAT" env-default:"jpg"`
	VideoFormat     string `yaml:"video_format" env:"MEDIA_DOWNLOADER_VIDEO_FORMAT" env-default:"mp4"`
	OutputTemplate  string `yaml:"output_template" env:"MEDIA_DOWNLOADER_OUTPUT_TEMPLATE" env-default:"%(title).150B [%(id)s].%(ext)s"`
}

func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		AudioFormat:     "m4a",
		ThumbnailFormat: "jpg",
		VideoFormat:     "mp4",
		OutputTemplate:  "%(title).150B [%(id)s].%(ext)s",
	}
}

const keepVideoOption = "--keep-video"

// Build returns the extractor options for mediaType, writing into scratchDir.
func Build(formats FormatConfig, mediaType media.Type, scratchDir string) (extractor.Options, error) {
	args := []string{
		"--output", formats.OutputTemplate,
		"--no-mtime",
	}
	switch mediaType {
	case media.TypeAudio:
		args = append(args, audioArgs(formats)...)
	case media.TypeVideo:
		args = append(args, videoArgs(formats)...)
	case media.TypeAudioVideo:
		// Audio is extracted from the downloaded video, which has to be kept.
		args = append(args, videoArgs(formats)...)
		args = append(args, "--extract-audio", "--audio-format", formats.AudioFormat, keepVideoOption)
	default:
		return extractor.Options{}, fmt.Errorf("%w: unknown media type %q", media.ErrContractViolation, mediaType)
	}
	return extractor.Options{OutputDir: scratchDir, Args: args}, nil
}

func audioArgs(formats FormatConfig) []string {
	return []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", formats.AudioFormat,
	}
}

func videoArgs(formats FormatConfig) []string {
	return []string{
		"--format", "bestvideo*+bestaudio/best",
		"--merge-output-format", formats.VideoFormat,
		"--write-thumbnail",
		"--convert-thumbnails", formats.ThumbnailFormat,
	}
}
