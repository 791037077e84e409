// Package catalog holds the static game data: wares, modules and factions.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when an id has no catalog entry.
var ErrNotFound = errors.New("catalog entry not found")

//go:embed data/default.yaml
var defaultCatalog []byte

// Document is the on-disk catalog layout.
type Document struct {
	Factions []Faction `yaml:"factions"`
	Wares    []Ware    `yaml:"wares"`
	Modules  []Module  `yaml:"modules"`
}

// Catalog is a validated, read-only view of a Document.
// Lookups return a boolean instead of nil entries.
type Catalog struct {
	factions   []Faction
	factionIdx map[string]int

	wares   []*Ware
	wareIdx map[string]*Ware

	modules   []*Module
	moduleIdx map[string]*Module
}

// New validates doc and builds a Catalog. Invalid records are skipped and logged.
func New(doc Document, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Catalog{
		factionIdx: make(map[string]int),
		wareIdx:    make(map[string]*Ware),
		moduleIdx:  make(map[string]*Module),
	}

	for _, f := range doc.Factions {
		if f.ID == "" {
			logger.Warn("Skipping faction without id", "name", f.Name)
			continue
		}
		if _, dup := c.factionIdx[f.ID]; dup {
			logger.Warn("Skipping duplicate faction", "faction", f.ID)
			continue
		}
		c.factionIdx[f.ID] = len(c.factions)
		c.factions = append(c.factions, f)
	}

	for i := range doc.Wares {
		w := doc.Wares[i]
		if err := validateWare(&w); err != nil {
			logger.Warn("Skipping invalid ware", "ware", w.ID, "error", err)
			continue
		}
		if _, dup := c.wareIdx[w.ID]; dup {
			logger.Warn("Skipping duplicate ware", "ware", w.ID)
			continue
		}
		w.Production = validRecipes(w.ID, w.Production, logger)
		c.wares = append(c.wares, &w)
		c.wareIdx[w.ID] = &w
	}

	for i := range doc.Modules {
		m := doc.Modules[i]
		if err := validateModule(&m); err != nil {
			logger.Warn("Skipping invalid module", "module", m.ID, "error", err)
			continue
		}
		if _, dup := c.moduleIdx[m.ID]; dup {
			logger.Warn("Skipping duplicate module", "module", m.ID)
			continue
		}
		if m.Type == ModuleStorage && !validCargo(m.Cargo) {
			logger.Warn("Storage module has no usable cargo, excluded from capacity", "module", m.ID)
			m.Cargo = nil
		}
		c.modules = append(c.modules, &m)
		c.moduleIdx[m.ID] = &m
	}

	return c
}

// Load decodes a YAML catalog from r.
func Load(r io.Reader, logger *slog.Logger) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	return New(doc, logger), nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string, logger *slog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f, logger)
}

// Default returns the catalog embedded in the binary.
func Default(logger *slog.Logger) (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog), logger)
}

// Module looks up a module by id.
func (c *Catalog) Module(id string) (*Module, bool) {
	m, ok := c.moduleIdx[id]
	return m, ok
}

// Ware looks up a ware by id.
func (c *Catalog) Ware(id string) (*Ware, bool) {
	w, ok := c.wareIdx[id]
	return w, ok
}

// Faction looks up a faction by id.
func (c *Catalog) Faction(id string) (Faction, bool) {
	i, ok := c.factionIdx[id]
	if !ok {
		return Faction{}, false
	}
	return c.factions[i], true
}

// Modules returns every module in catalog order.
func (c *Catalog) Modules() []*Module {
	out := make([]*Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// StorageModules returns storage modules with usable cargo, in catalog order.
func (c *Catalog) StorageModules() []*Module {
	var out []*Module
	for _, m := range c.modules {
		if m.IsStorage() {
			out = append(out, m)
		}
	}
	return out
}

// Wares returns every ware in catalog order.
func (c *Catalog) Wares() []*Ware {
	out := make([]*Ware, len(c.wares))
	copy(out, c.wares)
	return out
}

// Factions returns every faction in catalog order.
func (c *Catalog) Factions() []Faction {
	out := make([]Faction, len(c.factions))
	copy(out, c.factions)
	return out
}

// RequireModule is Module with a descriptive error for unknown ids.
func (c *Catalog) RequireModule(id string) (*Module, error) {
	if m, ok := c.Module(id); ok {
		return m, nil
	}
	if hints := c.Suggest(id); len(hints) > 0 {
		return nil, fmt.Errorf("module %q: %w (did you mean %q?)", id, ErrNotFound, hints[0])
	}
	return nil, fmt.Errorf("module %q: %w", id, ErrNotFound)
}

func validateWare(w *Ware) error {
	switch {
	case w.ID == "":
		return errors.New("missing id")
	case w.Name == "":
		return errors.New("missing name")
	case w.Volume <= 0:
		return fmt.Errorf("volume must be positive, got %v", w.Volume)
	}
	return nil
}

func validRecipes(wareID string, recipes []Recipe, logger *slog.Logger) []Recipe {
	var out []Recipe
	for _, r := range recipes {
		if r.Time <= 0 || r.Amount <= 0 {
			logger.Warn("Skipping recipe with non-positive time or amount", "ware", wareID, "method", r.Method)
			continue
		}
		out = append(out, r)
	}
	return out
}

func validateModule(m *Module) error {
	switch {
	case m.ID == "":
		return errors.New("missing id")
	case m.Name == "":
		return errors.New("missing name")
	case m.Type == "":
		return errors.New("missing type")
	}
	return nil
}

func validCargo(c *Cargo) bool {
	return c != nil && c.Max > 0 && c.Type.Valid()
}
