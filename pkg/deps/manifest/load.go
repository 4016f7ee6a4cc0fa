package manifest

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deprep/pkg/errors"
)

// Format is a manifest serialization.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf infers the format from a path or URL: .yaml and .yml are YAML,
// anything else is JSON.
func FormatOf(location string) Format {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Loader reads manifests from local paths or http(s) URLs.
type Loader struct {
	fs afs.Service
}

// NewLoader creates a Loader backed by the default storage service.
func NewLoader() *Loader {
	return &Loader{fs: afs.New()}
}

// Load reads and parses the manifest at location.
func (l *Loader) Load(ctx context.Context, location string) (*Manifest, error) {
	data, err := l.fs.DownloadWithURL(ctx, resolveURL(location))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestLoad, err, "read manifest %s", location)
	}
	m, err := Parse(data, FormatOf(location))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest %s", location)
	}
	return m, nil
}

// Load reads a manifest with a default [Loader].
func Load(ctx context.Context, location string) (*Manifest, error) {
	return NewLoader().Load(ctx, location)
}

// Parse decodes a manifest document.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func resolveURL(location string) string {
	if IsRemote(location) || strings.HasPrefix(location, "file://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	return "file://" + filepath.ToSlash(location)
}
