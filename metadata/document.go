// Package metadata interprets the loosely-typed info document written by the extraction tool.
//
// The document comes in two shapes. A single item carries "requested_downloads" at the root. A playlist carries
// "entries", each shaped like a single item, and only the first entry is used. Parse flattens both into an Entry so
// nothing downstream has to care which shape it was.
package metadata

import (
	"fmt"

	"github.com/alanbriolat/media-downloader/generic"
	"github.com/alanbriolat/media-downloader/media"
)

type Document map[string]any

const (
	keyType               = "_type"
	keyTitle              = "title"
	keyEntries            = "entries"
	keyDuration           = "duration"
	keyRequestedDownloads = "requested_downloads"

	playlistType = "playlist"
)

var (
	ErrEmptyPlaylist = fmt.Errorf("%w: item said to be downloaded but no entries to process", media.ErrDataIntegrity)
)

// Entry is the canonical view of a document, whichever shape it had.
type Entry struct {
	// Title of the root document, even for playlists.
	Title      string
	IsPlaylist bool
	Duration   generic.Option[float64]
	// RawDuration is set only when a duration was present but was not numeric.
	RawDuration        any
	RequestedDownloads []Descriptor
}

// Parse normalizes doc into an Entry. A playlist with no entries is rejected with ErrEmptyPlaylist.
func Parse(doc Document) (*Entry, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty document", media.ErrDataIntegrity)
	}
	entry := &Entry{}
	entry.Title, _ = doc[keyTitle].(string)

	item := map[string]any(doc)
	if t, _ := doc[keyType].(string); t == playlistType {
		entry.IsPlaylist = true
		entries, ok := asSlice(doc[keyEntries])
		if !ok || len(entries) == 0 {
			return nil, ErrEmptyPlaylist
		}
		if item, ok = asMap(entries[0]); !ok {
			return nil, fmt.Errorf("%w: playlist entry is %T, not an object", media.ErrDataIntegrity, entries[0])
		}
	}

	entry.Duration, entry.RawDuration = CoerceDuration(item[keyDuration])

	if raw, present := item[keyRequestedDownloads]; present && raw != nil {
		downloads, ok := asSlice(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T, not a list", media.ErrDataIntegrity, keyRequestedDownloads, raw)
		}
		for i, d := range downloads {
			obj, ok := asMap(d)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] is %T, not an object", media.ErrDataIntegrity, keyRequestedDownloads, i, d)
			}
			descriptor, err := ParseDescriptor(obj)
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", media.ErrDataIntegrity, keyRequestedDownloads, i, err)
			}
			entry.RequestedDownloads = append(entry.RequestedDownloads, descriptor)
		}
	}

	return entry, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []Document:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	default:
		return nil, false
	}
}
