package media_downloader

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/alanbriolat/media-downloader/extractor"
	"github.com/alanbriolat/media-downloader/generic"
	"github.com/alanbriolat/media-downloader/media"
	"github.com/alanbriolat/media-downloader/ytdlopts"
)

var (
	ErrDuplicateHost = errors.New("duplicate host name")
	ErrInvalidHost   = errors.New("invalid host")
	ErrNoMatch       = errors.New("no host matched the input")
	ErrUnknownHost   = errors.New("unknown host")
)

var (
	PriorityHighest int16 = math.MinInt16
	PriorityDefault int16 = 0
	PriorityLowest  int16 = math.MaxInt16
)

// HostConfig is the per-site configuration for one URL.
type HostConfig interface {
	// URL is what the extractor should be given, which may be a normalized form of the matched URL.
	URL() string
	// BuildOptions returns extractor options for mediaType that write into scratchDir.
	BuildOptions(mediaType media.Type, scratchDir string, formats ytdlopts.FormatConfig) (extractor.Options, error)
}

type MatchFunc = func(string) (HostConfig, error)

// A Host matches any URL it has a configuration for.
type Host struct {
	Name  string
	Match MatchFunc
	// Priority of the matcher, lower (including negative) means matching earlier.
	Priority int16
}

// A HostMatch is the result of a Host successfully matching a URL.
type HostMatch struct {
	HostName string
	Config   HostConfig
}

// A HostRegistry is a collection of Host instances which can be used to try to match URLs.
type HostRegistry struct {
	hosts   []*Host
	hostMap map[string]*Host
}

// Add registers a Host. Host.Name and Host.Match must be set, and Host.Name must be unique within the registry.
func (r *HostRegistry) Add(h Host) error {
	if r.hostMap == nil {
		r.hostMap = make(map[string]*Host)
	}
	if h.Name == "" || h.Match == nil {
		return ErrInvalidHost
	}
	if _, ok := r.hostMap[h.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHost, h.Name)
	}
	r.hostMap[h.Name] = &h
	r.hosts = append(r.hosts, r.hostMap[h.Name])
	r.sortByPriority()
	return nil
}

// MustAdd wraps Add but panics if there is an error.
func (r *HostRegistry) MustAdd(h Host) {
	generic.Unwrap_(r.Add(h))
}

// List returns the names of registered hosts in priority order.
func (r *HostRegistry) List() []string {
	names := make([]string, 0, len(r.hosts))
	for _, h := range r.hosts {
		names = append(names, h.Name)
	}
	return names
}

// Match a URL against each Host in priority order. If none match, the error wraps ErrNoMatch along with each host's
// reason for rejecting it.
func (r *HostRegistry) Match(s string) (*HostMatch, error) {
	var result error
	for _, h := range r.hosts {
		config, err := h.Match(s)
		if config != nil && err == nil {
			return &HostMatch{HostName: h.Name, Config: config}, nil
		}
		if err != nil {
			result = multierror.Append(result, multierror.Prefix(err, fmt.Sprintf("[%v]", h.Name)))
		}
	}
	if result == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, s)
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrNoMatch, s, result)
}

// MatchWith will attempt to match a URL against a specific host.
func (r *HostRegistry) MatchWith(name string, s string) (*HostMatch, error) {
	h, ok := r.hostMap[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHost, name)
	}
	config, err := h.Match(s)
	if config == nil || err != nil {
		return nil, fmt.Errorf("%w: [%s] %v", ErrNoMatch, name, err)
	}
	return &HostMatch{HostName: h.Name, Config: config}, nil
}

// SetPriority adjusts the priority of a named Host.
func (r *HostRegistry) SetPriority(name string, priority int16) error {
	if h, ok := r.hostMap[name]; ok {
		h.Priority = priority
		r.sortByPriority()
		return nil
	} else {
		return ErrUnknownHost
	}
}

func (r *HostRegistry) sortByPriority() {
	sort.SliceStable(r.hosts, func(i, j int) bool {
		return r.hosts[i].Priority < r.hosts[j].Priority
	})
}

// DefaultHostRegistry is populated by the init functions of the packages under hosts/.
var DefaultHostRegistry HostRegistry
