package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Kind selects the collection implementation built from a definition.
type Kind string

const (
	// KindAction builds a shortcut.ActionCollection; shortcuts live on the commands.
	KindAction Kind = "action"

	// KindShortcut builds a shortcut.ShortcutCollection; shortcuts live in the collection.
	KindShortcut Kind = "shortcut"
)

// Format is a definition file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// File is the content of one definition file.
type File struct {
	Include     []string        `toml:"include,omitempty" yaml:"include,omitempty" json:"include,omitempty" jsonschema:"description=Further definition files; relative paths resolve against this file"`
	Collections []CollectionDef `toml:"collection" yaml:"collection" json:"collection" jsonschema:"description=Shortcut collections"`
}

// CollectionDef describes one collection.
type CollectionDef struct {
	Name     string       `toml:"name" yaml:"name" json:"name" jsonschema:"required,description=Unique collection name"`
	Kind     Kind         `toml:"kind,omitempty" yaml:"kind,omitempty" json:"kind,omitempty" jsonschema:"enum=action,enum=shortcut,default=action,description=Where shortcuts are stored"`
	Commands []CommandDef `toml:"command,omitempty" yaml:"command,omitempty" json:"command,omitempty" jsonschema:"description=Commands of the collection"`

	// Source is the file the definition was read from.
	Source string `toml:"-" yaml:"-" json:"-"`
}

// CommandDef describes one command.
type CommandDef struct {
	Name     string   `toml:"name" yaml:"name" json:"name" jsonschema:"required,description=Command name unique within its collection"`
	Text     string   `toml:"text,omitempty" yaml:"text,omitempty" json:"text,omitempty" jsonschema:"description=Display text; & marks an accelerator"`
	Icon     string   `toml:"icon,omitempty" yaml:"icon,omitempty" json:"icon,omitempty"`
	Keys     []string `toml:"keys,omitempty" yaml:"keys,omitempty" json:"keys,omitempty" jsonschema:"description=Bound key sequences such as Ctrl+S or Ctrl+K Ctrl+S"`
	Defaults []string `toml:"defaults,omitempty" yaml:"defaults,omitempty" json:"defaults,omitempty" jsonschema:"description=Default key sequences"`
}

// EffectiveKind returns the kind, defaulting to KindAction.
func (d CollectionDef) EffectiveKind() Kind {
	if d.Kind == "" {
		return KindAction
	}
	return d.Kind
}

// Decode parses a definition file. The format is chosen by path's
// extension; unknown fields are rejected.
func Decode(path string, data []byte) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var f File
	switch format {
	case FormatTOML:
		err = decodeTOML(data, &f)
	case FormatYAML:
		err = decodeYAML(data, &f)
	case FormatJSON:
		err = decodeJSON(data, &f)
	}
	if err != nil {
		return nil, newParseError(path, data, err)
	}

	for i := range f.Collections {
		f.Collections[i].Source = path
	}
	return &f, nil
}

func decodeTOML(data []byte, v any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeJSON(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Encode renders f in the format implied by path's extension.
func Encode(path string, f *File) ([]byte, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// newParseError wraps a decoder error with the position it reports.
func newParseError(path string, data []byte, err error) *ParseError {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}

	var (
		tomlErr   *toml.DecodeError
		strictErr *toml.StrictMissingError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tomlErr):
		pe.Line, pe.Column = tomlErr.Position()
	case errors.As(err, &strictErr) && len(strictErr.Errors) > 0:
		pe.Line, pe.Column = strictErr.Errors[0].Position()
		pe.Message = strictErr.Errors[0].Error()
	case errors.As(err, &syntaxErr):
		pe.Line, pe.Column = offsetPosition(data, syntaxErr.Offset)
	case errors.As(err, &typeErr):
		pe.Line, pe.Column = offsetPosition(data, typeErr.Offset)
	default:
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			pe.Line, _ = strconv.Atoi(m[1])
		}
	}
	return pe
}

// offsetPosition converts a byte offset into a 1-based line and column.
func offsetPosition(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}
