// Package tuning reads pursuit tuning files into typed configuration rows.
//
// A tuning file is a YAML mapping of section name to a mapping of key to
// row. A row is either a scalar or a flow sequence of scalars:
//
//	"Chasers:Limits":
//	  default: 4
//	  heat01: 2
//	"Chasers:Heat01":
//	  copmidsize: [4, 60]
//	  copsporthench: [1, 20]
//
// Section and key order is preserved so open-ended sections keep the
// order they were written in.
package tuning

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"PursuitOverhaul/internal/tier"
)

type section struct {
	keys    map[string]int
	entries []tier.Entry
}

// File is a parsed set of tuning sections. It implements tier.Source.
type File struct {
	sections map[string]*section
	order    []string
}

// New returns an empty file.
func New() *File {
	return &File{sections: map[string]*section{}}
}

// Parse decodes one YAML document.
func Parse(data []byte) (*File, error) {
	f := New()
	if err := f.merge(data); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads path. A directory loads every *.yaml and *.yml file in it in
// name order; later files override keys of earlier ones.
func Load(path string) (*File, error) {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("stat tuning %q: %w", clean, err)
	}
	paths := []string{clean}
	if info.IsDir() {
		paths, err = tuningFiles(clean)
		if err != nil {
			return nil, err
		}
	}
	f := New()
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read tuning %q: %w", p, err)
		}
		if err := f.merge(data); err != nil {
			return nil, fmt.Errorf("parse tuning %q: %w", p, err)
		}
	}
	return f, nil
}

func tuningFiles(dir string) ([]string, error) {
	var out []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob tuning %q: %w", dir, err)
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}

func (f *File) merge(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping of sections", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i], root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: section %q must be a mapping", body.Line, name.Value)
		}
		for j := 0; j+1 < len(body.Content); j += 2 {
			key, value := body.Content[j], body.Content[j+1]
			row, err := decodeRow(value)
			if err != nil {
				return fmt.Errorf("line %d: %s.%s: %w", value.Line, name.Value, key.Value, err)
			}
			f.Set(name.Value, key.Value, row)
		}
	}
	return nil
}

func decodeRow(n *yaml.Node) (tier.Row, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		v, err := decodeScalar(n)
		if err != nil {
			return nil, err
		}
		return tier.Row{v}, nil
	case yaml.SequenceNode:
		row := make(tier.Row, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("nested values are not allowed in a row")
			}
			v, err := decodeScalar(c)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		return row, nil
	default:
		return nil, fmt.Errorf("row must be a scalar or a sequence")
	}
}

func decodeScalar(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Set stores row under section/key, replacing any previous row but keeping
// the key's original position.
func (f *File) Set(sectionName, key string, row tier.Row) {
	s, ok := f.sections[sectionName]
	if !ok {
		s = &section{keys: map[string]int{}}
		f.sections[sectionName] = s
		f.order = append(f.order, sectionName)
	}
	if idx, ok := s.keys[key]; ok {
		s.entries[idx].Row = row
		return
	}
	s.keys[key] = len(s.entries)
	s.entries = append(s.entries, tier.Entry{Key: key, Row: row})
}

// Lookup implements tier.Source.
func (f *File) Lookup(sectionName, key string) (tier.Row, bool) {
	s, ok := f.sections[sectionName]
	if !ok {
		return nil, false
	}
	idx, ok := s.keys[key]
	if !ok {
		return nil, false
	}
	return s.entries[idx].Row, true
}

// Entries implements tier.Source.
func (f *File) Entries(sectionName string) []tier.Entry {
	s, ok := f.sections[sectionName]
	if !ok {
		return nil
	}
	out := make([]tier.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Sections returns the section names in file order.
func (f *File) Sections() []string {
	return append([]string(nil), f.order...)
}
