package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/webschema/internal/schema"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Format is a schema file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for file extensions other than .yaml, .yml and .toml.
var ErrUnknownFormat = errors.New("unknown schema file format")

// File is a decoded schema file. Fields are kept loosely typed so the builder performs
// the same validation it performs for Go callers.
type File struct {
	Name       string `yaml:"name" toml:"name"`
	Resource   any    `yaml:"resource" toml:"resource"`
	Base       any    `yaml:"base" toml:"base"`
	Properties []any  `yaml:"properties" toml:"properties"`
	Key        any    `yaml:"key" toml:"key"`
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads and decodes a schema file. Name defaults to the file name without extension.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	f, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// Decode parses schema file content. Unknown top-level fields are rejected.
func Decode(data []byte, format Format) (*File, error) {
	var f File

	switch format {
	case FormatYAML:
		if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return &f, nil
}

// Apply replays the file's declarations on b: resource, base, properties in file order,
// then key. Absent sections are skipped, which leaves the builder invalid and surfaces
// as schema.ErrConfiguration on first use. The first failing declaration stops Apply.
func (f *File) Apply(b *schema.Builder) error {
	if f.Resource != nil {
		if err := b.Resource(f.Resource); err != nil {
			return fmt.Errorf("resource: %w", err)
		}
	}
	if f.Base != nil {
		if err := b.Base(f.Base); err != nil {
			return fmt.Errorf("base: %w", err)
		}
	}

	for i, entry := range f.Properties {
		var err error
		if args, ok := entry.([]any); ok {
			err = b.Property(args...)
		} else {
			err = b.Property(entry)
		}
		if err != nil {
			return fmt.Errorf("properties[%d]: %w", i, err)
		}
	}

	if f.Key != nil {
		if err := b.Key(f.Key); err != nil {
			return fmt.Errorf("key: %w", err)
		}
	}
	return nil
}

// Builder returns a new builder holding the file's declarations.
func (f *File) Builder() (*schema.Builder, error) {
	b := schema.NewBuilder()
	if err := f.Apply(b); err != nil {
		return nil, err
	}
	return b, nil
}
