package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Spok95/qc-tracker/internal/models"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog is the static reference data. It is loaded once at startup and never mutated.
type Catalog struct {
	Errors          []models.QCError        `yaml:"errors"`
	Projects        []string                `yaml:"projects"`
	TrackerProjects []models.TrackerProject `yaml:"trackerProjects"`
	TimeSlots       []string                `yaml:"timeSlots"`
	InitialUsers    []models.User           `yaml:"initialUsers"`

	byID map[string]models.QCError
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic("catalog: bad embedded default: " + err.Error())
	}
	return c
}

// Load reads a catalog override from path; an empty path yields Default().
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) init() error {
	c.byID = make(map[string]models.QCError, len(c.Errors))
	for _, e := range c.Errors {
		if e.ID == "" {
			return fmt.Errorf("catalog: error %q without id", e.Name)
		}
		if e.Weight > 0 {
			return fmt.Errorf("catalog: error %s has positive weight %d", e.ID, e.Weight)
		}
		if _, dup := c.byID[e.ID]; dup {
			return fmt.Errorf("catalog: duplicate error id %s", e.ID)
		}
		c.byID[e.ID] = e
	}
	if len(c.TimeSlots) == 0 {
		return fmt.Errorf("catalog: no time slots")
	}
	for _, u := range c.InitialUsers {
		if !u.Role.Valid() {
			return fmt.Errorf("catalog: user %s has unknown role %q", u.Name, u.Role)
		}
	}
	return nil
}

func (c *Catalog) Error(id string) (models.QCError, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Weight of an error id; unknown ids weigh nothing.
func (c *Catalog) Weight(id string) int {
	return c.byID[id].Weight
}

func (c *Catalog) HasProject(name string) bool {
	return contains(c.Projects, name)
}

func (c *Catalog) HasSlot(slot string) bool {
	return contains(c.TimeSlots, slot)
}

func (c *Catalog) TrackerProject(name string) (models.TrackerProject, bool) {
	for _, p := range c.TrackerProjects {
		if p.Name == name {
			return p, true
		}
	}
	return models.TrackerProject{}, false
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
