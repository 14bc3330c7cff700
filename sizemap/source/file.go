package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/segalloc/sizemap"
)

// ErrUnknownFormat indicates a file extension File can't decode.
var ErrUnknownFormat = errors.New("source: unknown override file format")

// record is one size class as written in an override file.
type record struct {
	Size      int `toml:"size" yaml:"size"`
	Pages     int `toml:"pages" yaml:"pages"`
	NumToMove int `toml:"num_to_move" yaml:"num_to_move"`
}

// document is the top level of an override file:
//
//	[[class]]
//	size = 8
//	pages = 1
//	num_to_move = 32
type document struct {
	Classes []record `toml:"class" yaml:"class"`
}

// File returns an OverrideSource reading a TOML (.toml) or YAML (.yaml, .yml)
// file. An empty path supplies nothing.
func File(path string) sizemap.OverrideSource {
	return sizemap.OverrideFunc(func() ([]sizemap.Info, error) {
		if path == "" {
			return nil, sizemap.ErrNoOverride
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		infos, err := Decode(filepath.Ext(path), data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return infos, nil
	})
}

// Decode parses an override document. ext selects the format (".toml",
// ".yaml" or ".yml"). Class 0 is implied and prepended.
func Decode(ext string, data []byte) ([]sizemap.Info, error) {
	var doc document

	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown field %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	infos := make([]sizemap.Info, 0, len(doc.Classes)+1)
	infos = append(infos, sizemap.Info{})
	for _, r := range doc.Classes {
		infos = append(infos, sizemap.Info{Size: r.Size, Pages: r.Pages, NumToMove: r.NumToMove})
	}
	return infos, nil
}

// Encode renders infos (class 0 skipped) as a TOML override document.
func Encode(infos []sizemap.Info) ([]byte, error) {
	doc := document{Classes: make([]record, 0, len(infos))}
	for i, info := range infos {
		if i == 0 {
			continue
		}
		doc.Classes = append(doc.Classes, record{Size: info.Size, Pages: info.Pages, NumToMove: info.NumToMove})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
