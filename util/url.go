package util

import (
	"errors"
	"net/url"
	"strings"

	"github.com/alanbriolat/media-downloader/generic"
)

var (
	ErrNotHTTP = errors.New("not an http(s) URL")
)

var httpSchemes = generic.NewSet("http", "https")

// ParseHTTPURL parses s, requiring an http or https scheme and a host.
func ParseHTTPURL(s string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if !httpSchemes.Contains(strings.ToLower(parsed.Scheme)) || parsed.Host == "" {
		return nil, ErrNotHTTP
	}
	return parsed, nil
}

// Hostname returns the lowercased host of an http(s) URL, without any "www." prefix.
func Hostname(s string) (string, error) {
	parsed, err := ParseHTTPURL(s)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www."), nil
}
