// Package boltdb is the download history, one JSON-encoded media.Result per staging directory.
package boltdb

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/alanbriolat/media-downloader/media"
)

var Buckets = struct {
	Metadata []byte
	Results  []byte
}{
	Metadata: []byte("__metadata__"),
	Results:  []byte("results"),
}

var MetadataKeys = struct {
	Version []byte
}{
	Version: []byte("version"),
}

const currentVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported history database version")

type History interface {
	Close() error
	WriteResult(result *media.Result) error
	ListResults() ([]media.Result, error)
	DeleteResult(rootPath string) error
}

type history struct {
	*bbolt.DB
}

func New(path string) (_ History, err error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = db.Close()
		}
	}()
	err = db.Update(func(tx *bbolt.Tx) (err error) {
		// Ensure buckets exist
		var metadata *bbolt.Bucket
		if metadata, err = tx.CreateBucketIfNotExists(Buckets.Metadata); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(Buckets.Results); err != nil {
			return err
		}

		var version int
		if versionBytes := metadata.Get(MetadataKeys.Version); versionBytes == nil {
			version = 0
		} else if err = json.Unmarshal(versionBytes, &version); err != nil {
			return err
		}
		if version > currentVersion {
			return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
		}

		if versionBytes, err := json.Marshal(currentVersion); err != nil {
			return err
		} else if err = metadata.Put(MetadataKeys.Version, versionBytes); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &history{db}, nil
}

// ListResults returns every recorded result, ordered by staging directory path.
func (h history) ListResults() (results []media.Result, err error) {
	err = h.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(Buckets.Results).ForEach(func(k, v []byte) error {
			var result media.Result
			if err := json.Unmarshal(v, &result); err != nil {
				return fmt.Errorf("invalid history record %q: %w", k, err)
			}
			results = append(results, result)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// WriteResult records result under its RootPath, replacing any earlier record for the same directory.
func (h history) WriteResult(result *media.Result) error {
	if result.RootPath == "" {
		return fmt.Errorf("%w: result has no root path", media.ErrContractViolation)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return h.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(Buckets.Results).Put([]byte(result.RootPath), data)
	})
}

func (h history) DeleteResult(rootPath string) error {
	return h.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(Buckets.Results).Delete([]byte(rootPath))
	})
}
