package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alanbriolat/media-downloader/util"
)

const maxStagingAttempts = 16

// staging is a directory with a random name, created the first time something needs to go into it.
type staging struct {
	root       string
	nameLength int
	path       string
}

func (s *staging) ensure() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", err
	}
	for attempt := 0; attempt < maxStagingAttempts; attempt++ {
		path := filepath.Join(s.root, util.RandomString(s.nameLength))
		err := os.Mkdir(path, 0755)
		if err == nil {
			s.path = path
			return path, nil
		} else if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("no unused staging directory name in %q after %d attempts", s.root, maxStagingAttempts)
}

// rollback deletes the whole directory, if it was ever created.
func (s *staging) rollback(log *zap.SugaredLogger) {
	if s.path == "" {
		return
	}
	log.Infof("Removing staging directory %q: %s", s.path, util.ListFilesHuman(s.path))
	if err := util.RemoveDir(s.path); err != nil {
		log.Errorf("Failed to remove staging directory %q: %v", s.path, err)
	}
	s.path = ""
}
