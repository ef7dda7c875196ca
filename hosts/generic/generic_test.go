package generic

import (
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/ytdlopts"
)

func TestMatch(t *testing.T) {
	assert := assert_.New(t)

	config, err := Match("https://vimeo.com/12345")
	require_.NoError(t, err)
	assert.Equal("https://vimeo.com/12345", config.URL())

	opts, err := config.BuildOptions(media.TypeAudioVideo, "/tmp/s", ytdlopts.DefaultFormatConfig())
	require_.NoError(t, err)
	assert.Equal("/tmp/s", opts.OutputDir)
	assert.Contains(opts.Args, "--keep-video")

	_, err = Match("mailto:someone@example.com")
	assert.Error(err)
}
