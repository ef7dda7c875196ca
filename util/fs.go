package util

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// FileSize returns the size in bytes of the named file.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FormatBytes renders a byte count like "12.3MB".
func FormatBytes(n int64) string {
	return units.HumanSize(float64(n))
}

// ListFilesHuman describes the contents of dir on one line, e.g. `"a.mp4" [12.3MB video/mp4], "b.jpg" [20kB image/jpeg]`.
// Errors are rendered into the description rather than returned, since it only exists to be logged.
func ListFilesHuman(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	if len(entries) == 0 {
		return "<empty>"
	}
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			parts = append(parts, fmt.Sprintf("%q [dir]", entry.Name()))
			continue
		}
		details := []string{}
		if size, err := FileSize(path); err == nil {
			details = append(details, FormatBytes(size))
		}
		if kind, err := filetype.MatchFile(path); err == nil && kind != filetype.Unknown {
			details = append(details, kind.MIME.Value)
		}
		parts = append(parts, fmt.Sprintf("%q [%s]", entry.Name(), strings.Join(details, " ")))
	}
	return strings.Join(parts, ", ")
}

// ListFiles returns the names of regular files in dir, sorted.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RandomString returns n random lowercase hex characters.
func RandomString(n int) string {
	var b strings.Builder
	for b.Len() < n {
		id := uuid.New()
		b.WriteString(strings.ReplaceAll(id.String(), "-", ""))
	}
	return b.String()[:n]
}

// MoveFile moves src to dst, copying when a rename is impossible because they are on different devices. An existing
// dst is never replaced: the move fails with fs.ErrExist instead.
func MoveFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &fs.PathError{Op: "move", Path: dst, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// MoveIntoDir moves src into dir, keeping its name, and returns the new path.
func MoveIntoDir(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	if err := MoveFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// RemoveDir recursively deletes dir. A dir that does not exist is not an error.
func RemoveDir(dir string) error {
	return os.RemoveAll(dir)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	// dst is ours from here on, so a partial copy is removed.
	if _, err = io.Copy(out, in); err == nil {
		err = out.Close()
	} else {
		_ = out.Close()
	}
	if err != nil {
		_ = os.Remove(dst)
	}
	return err
}
