package ytdlopts

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"

	"github.com/alanbriolat/media-downloader/media"
)

func TestBuild(t *testing.T) {
	assert := assert_.New(t)
	formats := DefaultFormatConfig()

	opts, err := Build(formats, media.TypeAudio, "/scratch")
	assert.NoError(err)
	assert.Equal("/scratch", opts.OutputDir)
	assert.Subset(opts.Args, []string{"--extract-audio", "m4a"})
	assert.NotContains(opts.Args, "--write-thumbnail")
	assert.NotContains(opts.Args, keepVideoOption)

	opts, err = Build(formats, media.TypeVideo, "/scratch")
	assert.NoError(err)
	assert.Subset(opts.Args, []string{"--write-thumbnail", "--convert-thumbnails", "jpg", "--merge-output-format", "mp4"})
	assert.NotContains(opts.Args, "--extract-audio")

	opts, err = Build(formats, media.TypeAudioVideo, "/scratch")
	assert.NoError(err)
	assert.Subset(opts.Args, []string{"--write-thumbnail", "--extract-audio", keepVideoOption})

	_, err = Build(formats, "bogus", "/scratch")
	assert.ErrorIs(err, media.ErrContractViolation)
}
