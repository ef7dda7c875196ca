package media

import (
	"errors"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/alanbriolat/media-downloader/generic"
)

func TestParseType(t *testing.T) {
	assert := assert_.New(t)

	for input, expected := range map[string]Type{
		"audio":       TypeAudio,
		"VIDEO":       TypeVideo,
		"audio_video": TypeAudioVideo,
		"audio-video": TypeAudioVideo,
	} {
		actual, err := ParseType(input)
		assert.NoError(err, input)
		assert.Equal(expected, actual, input)
	}

	_, err := ParseType("subtitles")
	assert.ErrorIs(err, ErrContractViolation)
}

func TestTypeWants(t *testing.T) {
	assert := assert_.New(t)
	assert.True(TypeAudio.WantsAudio())
	assert.False(TypeAudio.WantsVideo())
	assert.False(TypeVideo.WantsAudio())
	assert.True(TypeVideo.WantsVideo())
	assert.True(TypeAudioVideo.WantsAudio())
	assert.True(TypeAudioVideo.WantsVideo())
}

func TestResultValidate(t *testing.T) {
	assert := assert_.New(t)

	assert.NoError((&Result{MediaType: TypeAudio, Audio: &Audio{}}).Validate())
	assert.NoError((&Result{MediaType: TypeVideo, Video: &Video{}}).Validate())
	assert.NoError((&Result{MediaType: TypeAudioVideo, Audio: &Audio{}, Video: &Video{}}).Validate())
	assert.ErrorIs((&Result{MediaType: TypeAudio}).Validate(), ErrContractViolation)
	assert.ErrorIs((&Result{MediaType: TypeVideo, Audio: &Audio{}, Video: &Video{}}).Validate(), ErrContractViolation)
	assert.ErrorIs((&Result{MediaType: "bogus"}).Validate(), ErrContractViolation)
}

func TestVideoFilename(t *testing.T) {
	assert := assert_.New(t)
	v := Video{OriginalFilename: "a.mp4", DirectoryPath: "/staging/abcd"}
	assert.Equal("a.mp4", v.Filename())
	assert.Equal("/staging/abcd/a.mp4", v.Path())
	v.CustomFilename = generic.Some("b.mp4")
	assert.Equal("/staging/abcd/b.mp4", v.Path())
}

func TestErrVideoPathNotFound(t *testing.T) {
	require := require_.New(t)
	require.True(errors.Is(ErrVideoPathNotFound, ErrDataIntegrity))
	require.EqualError(ErrVideoPathNotFound, "video filepath not found")
}
