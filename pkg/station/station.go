// Package station holds the module list of the station being planned.
package station

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/DrSkyle/stowage/pkg/catalog"
)

var (
	// ErrInvalidCount is returned for negative module counts.
	ErrInvalidCount = errors.New("module count must not be negative")
	// ErrVersionMismatch is returned by MergeAt when the station changed
	// since the expected version.
	ErrVersionMismatch = errors.New("station version changed")
)

// Instance is a module placed on the station some number of times.
// Module is nil when ModuleID is not in the catalog.
type Instance struct {
	ModuleID string          `json:"module" yaml:"module"`
	Count    int             `json:"count" yaml:"count"`
	Module   *catalog.Module `json:"-" yaml:"-"`
}

// Resolver resolves module ids against the catalog.
type Resolver interface {
	Module(id string) (*catalog.Module, bool)
}

// Addition is one entry of a merge batch.
type Addition struct {
	ModuleID string `json:"module"`
	Count    int    `json:"count"`
}

// MergeResult summarises a merge.
type MergeResult struct {
	Incremented int    `json:"incremented"`
	Appended    int    `json:"appended"`
	Version     uint64 `json:"version"`
}

// Snapshot is an immutable copy of the module list.
type Snapshot struct {
	Version   uint64     `json:"version"`
	Instances []Instance `json:"modules"`
}

// Station is the single owner of the module list. Every change bumps Version.
type Station struct {
	mu        sync.RWMutex
	resolver  Resolver
	instances []Instance
	index     map[string]int
	version   uint64
}

// New returns an empty station resolving modules through r.
func New(r Resolver) *Station {
	return &Station{
		resolver: r,
		index:    make(map[string]int),
	}
}

// Snapshot copies the current module list.
func (s *Station) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Instance, len(s.instances))
	copy(out, s.instances)
	return Snapshot{Version: s.version, Instances: out}
}

// Version returns the current revision.
func (s *Station) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Replace swaps the whole module list. Repeated ids are summed.
func (s *Station) Replace(instances []Instance) error {
	for _, in := range instances {
		if in.Count < 0 {
			return ErrInvalidCount
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.instances = nil
	s.index = make(map[string]int)
	for _, in := range instances {
		s.addLocked(in.ModuleID, in.Count)
	}
	s.version++
	return nil
}

// SetCount sets the count of a module, appending it if absent.
// A count of zero keeps the entry so it can be raised again.
func (s *Station) SetCount(moduleID string, count int) error {
	if count < 0 {
		return ErrInvalidCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[moduleID]; ok {
		s.instances[i].Count = count
	} else {
		s.addLocked(moduleID, count)
	}
	s.version++
	return nil
}

// Remove drops a module from the station.
func (s *Station) Remove(moduleID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[moduleID]
	if !ok {
		return false
	}
	s.instances = append(s.instances[:i], s.instances[i+1:]...)
	s.reindexLocked()
	s.version++
	return true
}

// Merge applies a batch of additions atomically: existing modules have
// their count raised, new ones are appended in batch order. Zero counts are
// skipped. The batch is skipped entirely when ctx is already done or any
// count is negative.
func (s *Station) Merge(ctx context.Context, batch []Addition) (MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return MergeResult{Version: s.Version()}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mergeLocked(batch)
}

// MergeAt is Merge guarded by an expected version. Nothing is applied when
// the station moved past version.
func (s *Station) MergeAt(ctx context.Context, version uint64, batch []Addition) (MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return MergeResult{Version: s.Version()}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return MergeResult{Version: s.version}, fmt.Errorf("expected %d, have %d: %w", version, s.version, ErrVersionMismatch)
	}
	return s.mergeLocked(batch)
}

func (s *Station) mergeLocked(batch []Addition) (MergeResult, error) {
	for _, a := range batch {
		if a.Count < 0 {
			return MergeResult{Version: s.version}, fmt.Errorf("module %s: %w", a.ModuleID, ErrInvalidCount)
		}
	}

	var res MergeResult
	for _, a := range batch {
		if a.Count <= 0 {
			continue
		}
		if i, ok := s.index[a.ModuleID]; ok {
			s.instances[i].Count += a.Count
			res.Incremented++
			continue
		}
		s.addLocked(a.ModuleID, a.Count)
		res.Appended++
	}
	if res.Incremented+res.Appended > 0 {
		s.version++
	}
	res.Version = s.version
	return res, nil
}

func (s *Station) addLocked(moduleID string, count int) {
	if i, ok := s.index[moduleID]; ok {
		s.instances[i].Count += count
		return
	}
	in := Instance{ModuleID: moduleID, Count: count}
	if s.resolver != nil {
		if m, ok := s.resolver.Module(moduleID); ok {
			in.Module = m
		}
	}
	s.index[moduleID] = len(s.instances)
	s.instances = append(s.instances, in)
}

func (s *Station) reindexLocked() {
	s.index = make(map[string]int, len(s.instances))
	for i, in := range s.instances {
		s.index[in.ModuleID] = i
	}
}
