// Package resolve turns a metadata document and the scratch directory it describes into staged media files.
package resolve

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/alanbriolat/media-downloader/generic"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/metadata"
	"github.com/alanbriolat/media-downloader/util"
)

const DefaultNameLength = 4

type Config struct {
	// StagingRoot is the parent of every staging directory. It is created if missing.
	StagingRoot string
	// AudioExt is the extension audio is converted to, without the leading ".".
	AudioExt string
	// ThumbnailExt is the extension thumbnails are converted to, without the leading ".".
	ThumbnailExt string
	// NameLength is the length of generated staging directory names.
	NameLength int
}

type Resolver struct {
	config Config
	log    *zap.SugaredLogger
}

// New creates a Resolver. A nil logger means zap.L().
func New(config Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.L()
	}
	config.AudioExt = strings.TrimPrefix(config.AudioExt, ".")
	config.ThumbnailExt = strings.TrimPrefix(config.ThumbnailExt, ".")
	if config.NameLength <= 0 {
		config.NameLength = DefaultNameLength
	}
	return &Resolver{
		config: config,
		log:    logger.Sugar().Named("resolver"),
	}
}

// Resolution holds the staged files. RootPath is the staging directory, owned by the caller from now on.
type Resolution struct {
	Audio    *media.Audio
	Video    *media.Video
	RootPath string
}

// Resolve locates the files for mediaType in scratchDir, moves them into a new staging directory and describes them.
// If anything fails once the staging directory exists, the whole directory is removed before the error is returned.
// Errors are returned unchanged: media.ErrDataIntegrity and media.ErrVideoPathNotFound for unusable documents,
// *fs.PathError and friends for missing files, media.ErrContractViolation for bad arguments.
func (r *Resolver) Resolve(mediaType media.Type, doc metadata.Document, scratchDir string, customFilename string) (_ *Resolution, err error) {
	if !mediaType.IsValid() {
		return nil, fmt.Errorf("%w: unknown media type %q", media.ErrContractViolation, mediaType)
	}
	if customFilename != "" && (filepath.Base(customFilename) != customFilename || customFilename == "." || customFilename == "..") {
		return nil, fmt.Errorf("%w: custom filename %q must be a bare filename", media.ErrContractViolation, customFilename)
	}

	// Audio-only requests are parsed too, so an empty playlist fails whatever the media type.
	entry, err := metadata.Parse(doc)
	if err != nil {
		r.log.Errorw("Unusable metadata document", "error", err, "meta", doc)
		return nil, err
	}

	stage := &staging{root: r.config.StagingRoot, nameLength: r.config.NameLength}
	defer func() {
		if err != nil {
			stage.rollback(r.log)
		}
	}()

	res := &Resolution{}
	if mediaType.WantsVideo() {
		if res.Video, err = r.buildVideo(entry, doc, scratchDir, stage, customFilename); err != nil {
			return nil, err
		}
	}
	if mediaType.WantsAudio() {
		if res.Audio, err = r.buildAudio(entry, scratchDir, stage); err != nil {
			return nil, err
		}
	}
	res.RootPath = stage.path
	return res, nil
}

func (r *Resolver) buildVideo(entry *metadata.Entry, doc metadata.Document, scratchDir string, stage *staging, customFilename string) (*media.Video, error) {
	selected, err := entry.SelectVideo(r.config.AudioExt)
	if err != nil {
		r.log.Errorw("Video filepath not found", "error", err, "meta", doc)
		return nil, err
	}
	for _, change := range selected.Changes() {
		r.log.Infof("Replacing video %s in meta %q with %q (%s)", strings.Join(change.Path, "."), change.From, change.To, selected.Matcher)
	}

	filename := selected.Filename()
	src := filepath.Join(scratchDir, filename)
	destName := filename
	if customFilename != "" {
		destName = customFilename
	}
	dir, err := stage.ensure()
	if err != nil {
		return nil, err
	}
	dst := filepath.Join(dir, destName)
	r.log.Infof("Moving %q to %q", src, dst)
	if err := util.MoveFile(src, dst); err != nil {
		return nil, err
	}

	video := &media.Video{
		Title:            entry.Title,
		OriginalFilename: filename,
		Duration:         entry.Duration,
		RawDuration:      entry.RawDuration,
		Width:            selected.Descriptor.Width,
		Height:           selected.Descriptor.Height,
		DirectoryPath:    dir,
	}
	if customFilename != "" {
		video.CustomFilename = generic.Some(customFilename)
	}

	thumbName, found, err := r.findFile(scratchDir, r.config.ThumbnailExt, "thumbnail")
	if err != nil {
		return nil, err
	}
	if found {
		thumbPath, err := util.MoveIntoDir(filepath.Join(scratchDir, thumbName), dir)
		if err != nil {
			return nil, err
		}
		video.ThumbnailFilename = generic.Some(thumbName)
		video.ThumbnailPath = generic.Some(thumbPath)
	}

	if video.FileSize, err = util.FileSize(dst); err != nil {
		return nil, err
	}
	return video, nil
}

// buildAudio never reports a duration, even if the document has one.
func (r *Resolver) buildAudio(entry *metadata.Entry, scratchDir string, stage *staging) (*media.Audio, error) {
	filename, found, err := r.findFile(scratchDir, r.config.AudioExt, "audio")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &fs.PathError{Op: "move", Path: filepath.Join(scratchDir, "*."+r.config.AudioExt), Err: fs.ErrNotExist}
	}
	dir, err := stage.ensure()
	if err != nil {
		return nil, err
	}
	src := filepath.Join(scratchDir, filename)
	r.log.Infof("Moving %q to %q", src, dir)
	dst, err := util.MoveIntoDir(src, dir)
	if err != nil {
		return nil, err
	}
	size, err := util.FileSize(dst)
	if err != nil {
		return nil, err
	}
	return &media.Audio{
		Title:            entry.Title,
		OriginalFilename: filename,
		Duration:         generic.None[float64](),
		DirectoryPath:    dir,
		FileSize:         size,
	}, nil
}

// findFile returns the first file in dir, in lexical order, matching "*.<ext>". Like a shell glob, hidden files are
// not matched.
func (r *Resolver) findFile(dir string, ext string, verboseName string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, err
	}
	pattern := "*." + ext
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		if ok, err := filepath.Match(pattern, name); err != nil {
			return "", false, err
		} else if ok {
			size := "?"
			if n, err := util.FileSize(filepath.Join(dir, name)); err == nil {
				size = util.FormatBytes(n)
			}
			r.log.Infof("Found downloaded %s: %q [%s]", verboseName, name, size)
			return name, true, nil
		}
	}
	r.log.Infof("Downloaded %s not found in %q", verboseName, dir)
	return "", false, nil
}
