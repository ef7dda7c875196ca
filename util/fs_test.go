package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require_.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRandomString(t *testing.T) {
	assert := assert_.New(t)
	assert.Len(RandomString(4), 4)
	assert.Len(RandomString(50), 50)
	assert.Regexp("^[0-9a-f]{8}$", RandomString(8))
	assert.NotEqual(RandomString(16), RandomString(16))
}

func TestMoveFile(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "hello")
	dst := filepath.Join(dir, "b.txt")

	require.NoError(MoveFile(src, dst))
	assert.NoFileExists(src)
	size, err := FileSize(dst)
	require.NoError(err)
	assert.Equal(int64(5), size)

	err = MoveFile(filepath.Join(dir, "missing"), dst)
	assert.True(errors.Is(err, fs.ErrNotExist))
}

func TestMoveFileKeepsExistingDestination(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "video.mp4")
	dst := filepath.Join(dir, "audio.m4a")
	writeFile(t, src, "video")
	writeFile(t, dst, "audio!")

	err := MoveFile(src, dst)
	require.Error(err)
	assert.True(errors.Is(err, fs.ErrExist))
	assert.FileExists(src)
	size, err := FileSize(dst)
	require.NoError(err)
	assert.Equal(int64(6), size)
}

func TestCopyFileKeepsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	writeFile(t, src, "hello")
	writeFile(t, dst, "keep")

	assert_.Error(t, copyFile(src, dst))
	assert_.FileExists(t, dst)
	size, err := FileSize(dst)
	require_.NoError(t, err)
	assert_.Equal(t, int64(4), size)
}

func TestMoveIntoDir(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(os.Mkdir(target, 0755))
	src := filepath.Join(dir, "thumb.jpg")
	writeFile(t, src, "x")

	dst, err := MoveIntoDir(src, target)
	require.NoError(err)
	assert.Equal(filepath.Join(target, "thumb.jpg"), dst)
	assert.FileExists(dst)
}

func TestListFiles(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)

	dir := t.TempDir()
	assert.Equal("<empty>", ListFilesHuman(dir))

	writeFile(t, filepath.Join(dir, "b.m4a"), "bb")
	writeFile(t, filepath.Join(dir, "a.mp4"), "a")
	require.NoError(os.Mkdir(filepath.Join(dir, "sub"), 0755))

	names, err := ListFiles(dir)
	require.NoError(err)
	assert.Equal([]string{"a.mp4", "b.m4a"}, names)

	human := ListFilesHuman(dir)
	assert.Contains(human, `"a.mp4" [1B]`)
	assert.Contains(human, `"b.m4a" [2B]`)
	assert.Contains(human, `"sub" [dir]`)

	assert.Contains(ListFilesHuman(filepath.Join(dir, "missing")), "<")
}

func TestRemoveDir(t *testing.T) {
	assert := assert_.New(t)
	dir := filepath.Join(t.TempDir(), "x")
	assert.NoError(os.MkdirAll(filepath.Join(dir, "y"), 0755))
	assert.NoError(RemoveDir(dir))
	assert.NoDirExists(dir)
	assert.NoError(RemoveDir(dir))
}

func TestFormatBytes(t *testing.T) {
	assert := assert_.New(t)
	assert.Equal("1.5kB", FormatBytes(1500))
}
