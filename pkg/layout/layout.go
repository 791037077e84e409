// Package layout saves and restores named station module lists.
package layout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/DrSkyle/stowage/pkg/station"
	"github.com/DrSkyle/stowage/pkg/storage"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned for unknown layout names.
	ErrNotFound = errors.New("layout not found")
	// ErrInvalidName is returned for names that cannot be stored.
	ErrInvalidName = errors.New("invalid layout name")
)

const ext = ".yaml"

// Entry is one module line of a layout.
type Entry struct {
	Module string `yaml:"module" json:"module"`
	Count  int    `yaml:"count" json:"count"`
}

// Layout is a named module list.
type Layout struct {
	Name     string  `yaml:"name" json:"name"`
	Sunlight float64 `yaml:"sunlight,omitempty" json:"sunlight,omitempty"`
	Modules  []Entry `yaml:"modules" json:"modules"`
}

// FromSnapshot captures a station snapshot under name.
func FromSnapshot(name string, snap station.Snapshot, sunlight float64) Layout {
	l := Layout{Name: name, Sunlight: sunlight}
	for _, in := range snap.Instances {
		l.Modules = append(l.Modules, Entry{Module: in.ModuleID, Count: in.Count})
	}
	return l
}

// Instances converts the layout back into unresolved station instances.
func (l Layout) Instances() []station.Instance {
	out := make([]station.Instance, 0, len(l.Modules))
	for _, e := range l.Modules {
		out = append(out, station.Instance{ModuleID: e.Module, Count: e.Count})
	}
	return out
}

// Additions converts the layout into a merge batch.
func (l Layout) Additions() []station.Addition {
	out := make([]station.Addition, 0, len(l.Modules))
	for _, e := range l.Modules {
		out = append(out, station.Addition{ModuleID: e.Module, Count: e.Count})
	}
	return out
}

// Parse decodes a YAML layout.
func Parse(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	for _, e := range l.Modules {
		if e.Module == "" {
			return Layout{}, errors.New("layout entry without module id")
		}
		if e.Count < 0 {
			return Layout{}, fmt.Errorf("module %s: %w", e.Module, station.ErrInvalidCount)
		}
	}
	return l, nil
}

// Marshal encodes l as YAML.
func Marshal(l Layout) ([]byte, error) {
	return yaml.Marshal(l)
}

// Store persists layouts in a blob store, one object per name.
type Store struct {
	blobs storage.BlobStore
}

// NewStore returns a Store backed by b.
func NewStore(b storage.BlobStore) *Store {
	return &Store{blobs: b}
}

// ValidName rejects names that cannot be used as a single object key.
func ValidName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q contains path characters", ErrInvalidName, name)
	}
	return nil
}

// Save writes l, replacing any layout with the same name.
func (s *Store) Save(ctx context.Context, l Layout) error {
	if err := ValidName(l.Name); err != nil {
		return err
	}
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	return s.blobs.Put(ctx, l.Name+ext, data)
}

// Get reads the layout called name.
func (s *Store) Get(ctx context.Context, name string) (Layout, error) {
	if err := ValidName(name); err != nil {
		return Layout{}, err
	}
	data, err := s.blobs.Get(ctx, name+ext)
	if errors.Is(err, storage.ErrNotFound) {
		return Layout{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Layout{}, err
	}
	l, err := Parse(data)
	if err != nil {
		return Layout{}, err
	}
	l.Name = name
	return l, nil
}

// List returns saved layout names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	keys, err := s.blobs.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, k := range keys {
		if strings.Contains(k, "/") || !strings.HasSuffix(k, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(k, ext))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the layout called name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	err := s.blobs.Delete(ctx, name+ext)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return err
}

// Load replaces the station module list with l.
func Load(st *station.Station, l Layout) error {
	return st.Replace(l.Instances())
}

// Add merges l into the station, summing counts of modules already placed.
func Add(ctx context.Context, st *station.Station, l Layout) (station.MergeResult, error) {
	return st.Merge(ctx, l.Additions())
}
