package metadata

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/alanbriolat/media-downloader/generic"
)

// Descriptor is one element of "requested_downloads": a single file the tool produced.
type Descriptor struct {
	Ext              string
	Filepath         generic.Option[string]
	Filename         generic.Option[string]
	InternalFilename generic.Option[string]
	Duration         generic.Option[float64]
	Width            generic.Option[int]
	Height           generic.Option[int]
	// Raw is the source object. It is shared with the document and must not be modified.
	Raw map[string]any
}

type rawDescriptor struct {
	Ext              string  `mapstructure:"ext"`
	Filepath         *string `mapstructure:"filepath"`
	Filename         *string `mapstructure:"filename"`
	InternalFilename *string `mapstructure:"_filename"`
	Duration         any     `mapstructure:"duration"`
	Width            any     `mapstructure:"width"`
	Height           any     `mapstructure:"height"`
}

// ParseDescriptor decodes a descriptor object. Missing or unusable fields become None rather than errors; only a
// field of a wholly incompatible type (such as an object where a path is expected) fails.
func ParseDescriptor(obj map[string]any) (Descriptor, error) {
	var raw rawDescriptor
	if err := mapstructure.WeakDecode(obj, &raw); err != nil {
		return Descriptor{}, err
	}
	d := Descriptor{
		Ext:              raw.Ext,
		Filepath:         nonEmpty(raw.Filepath),
		Filename:         nonEmpty(raw.Filename),
		InternalFilename: nonEmpty(raw.InternalFilename),
		Width:            coerceInt(raw.Width),
		Height:           coerceInt(raw.Height),
		Raw:              obj,
	}
	d.Duration, _ = CoerceDuration(raw.Duration)
	return d, nil
}

// InternalExt is the extension of the internal filename, the text after its last ".", or the whole name when it
// has none.
func (d Descriptor) InternalExt() generic.Option[string] {
	name, ok := d.InternalFilename.Get()
	if !ok {
		return generic.None[string]()
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return generic.Some(name[i+1:])
	}
	return generic.Some(name)
}

// CoerceDuration reads a duration in seconds. Absent values give None. Values that are present but not numeric give
// None and are also returned unchanged, so callers can pass them through instead of failing.
func CoerceDuration(v any) (generic.Option[float64], any) {
	if v == nil {
		return generic.None[float64](), nil
	}
	if f, ok := toFloat(v); ok {
		return generic.Some(f), nil
	}
	return generic.None[float64](), v
}

func coerceInt(v any) generic.Option[int] {
	if f, ok := toFloat(v); ok && !math.IsInf(f, 0) {
		return generic.Some(int(math.Round(f)))
	}
	return generic.None[int]()
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func nonEmpty(s *string) generic.Option[string] {
	if s == nil || *s == "" {
		return generic.None[string]()
	}
	return generic.Some(*s)
}
