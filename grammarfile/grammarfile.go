/*
Package grammarfile reads and writes grammars in flat form, as TOML or JSON
documents. A TOML grammar file looks like this:

    name = "G1"

    [[production]]
    symbol = "E"
    prod = "T"

    [[production]]
    symbol = "E"
    prod = "E+T"

The order of productions is significant: it defines the production indices
and the order of non-terminals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammarfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/lrzero/lr"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pelletier/go-toml"
)

// tracer traces with key 'lrzero.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrzero.lr")
}

// Format is an encoding of grammar files.
type Format int8

// Supported formats.
const (
	TOML Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "toml"
}

// FormatOf derives the format from a file name extension. Unknown
// extensions map to TOML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return TOML
}

// document represents a grammar file as it is encoded.
type document struct {
	Name        string               `toml:"name" json:"name"`
	Productions []*lr.FlatProduction `toml:"production" json:"productions"`
}

// Encode writes a flat grammar.
func Encode(w io.Writer, format Format, name string, flat lr.FlatGrammar) error {
	doc := &document{Name: name}
	for i := range flat {
		p := flat[i]
		doc.Productions = append(doc.Productions, &p)
	}
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
	default:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("error encoding TOML: %w", err)
		}
	}
	return nil
}

// Decode reads a flat grammar and returns it together with its name.
func Decode(r io.Reader, format Format) (string, lr.FlatGrammar, error) {
	buff, err := ioutil.ReadAll(r)
	if err != nil {
		return "", nil, err
	}
	doc := &document{}
	switch format {
	case JSON:
		err = json.Unmarshal(buff, doc)
	default:
		err = toml.Unmarshal(buff, doc)
	}
	if err != nil {
		return "", nil, fmt.Errorf("error decoding %s grammar: %w", format, err)
	}
	flat := lr.FlatGrammar{}
	for i, p := range doc.Productions {
		if p == nil || p.Symbol == "" {
			return "", nil, fmt.Errorf("production %d has no symbol", i)
		}
		flat = append(flat, *p)
	}
	return doc.Name, flat, nil
}

// Load reads a grammar from a file. The format is chosen by the file name
// extension. If the file does not name the grammar, the base name of the
// file is used.
func Load(path string) (*lr.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name, flat, err := Decode(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tracer().Debugf("loaded grammar %q with %d productions from %s", name, len(flat), path)
	return lr.FromFlat(name, flat), nil
}

// Save writes a grammar to a file, in the format given by the file name
// extension. The file is replaced as a whole.
func Save(path string, g *lr.Grammar) error {
	var buf bytes.Buffer
	if err := Encode(&buf, FormatOf(path), g.Name, g.Flatten()); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Dir is a directory of grammar files, one TOML file per grammar name. It
// may be used as a store for a workbench.
type Dir string

// Path returns the file path for a grammar name.
func (d Dir) Path(name string) string {
	if name == "" {
		name = "grammar"
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	return filepath.Join(string(d), name+".toml")
}

// Save persists a flat grammar under its name.
func (d Dir) Save(name string, flat lr.FlatGrammar) error {
	if err := os.MkdirAll(string(d), 0755); err != nil {
		return err
	}
	return Save(d.Path(name), lr.FromFlat(name, flat))
}

// Load reads the grammar saved under a name.
func (d Dir) Load(name string) (*lr.Grammar, error) {
	return Load(d.Path(name))
}
