package caption

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type CatalogEntry struct {
	ID      string  `toml:"id"`
	Caption string  `toml:"caption"`
	Action  *string `toml:"action"`
}

// Catalog maps sample identifiers to precomputed results. It is never
// mutated after construction.
type Catalog struct {
	byID   map[string]PredictionResult
	byStem map[string]string
	ids    []string
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]CatalogEntry{
		{
			ID:      "samples/basketball_dunk.png",
			Caption: "a basketball player is dunking a ball in a hoop",
			Action:  strPtr("Dunking"),
		},
		{
			ID:      "samples/running_dog.png",
			Caption: "a brown dog is running through the green grass",
			Action:  strPtr("Running"),
		},
		{
			ID:      "samples/sample1.jpg",
			Caption: "two people sit on dock at sunset",
			Action:  strPtr("Sit"),
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}

func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[string]PredictionResult, len(entries)),
		byStem: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry with empty id")
		}
		if e.Caption == "" {
			return nil, fmt.Errorf("catalog entry %q has no caption", e.ID)
		}
		if _, ok := c.byID[e.ID]; ok {
			return nil, fmt.Errorf("duplicate catalog entry %q", e.ID)
		}
		stem := Stem(e.ID)
		if other, ok := c.byStem[stem]; ok {
			return nil, fmt.Errorf("catalog entries %q and %q share stem %q", other, e.ID, stem)
		}
		res := PredictionResult{Caption: e.Caption}
		if e.Action != nil {
			res.Action = strPtr(*e.Action)
		}
		c.byID[e.ID] = res
		c.byStem[stem] = e.ID
		c.ids = append(c.ids, e.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// LoadCatalog reads a TOML file of [[sample]] tables.
func LoadCatalog(p string) (*Catalog, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var doc struct {
		Sample []CatalogEntry `toml:"sample"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewCatalog(doc.Sample)
}

// Resolve maps an exact id or a bare stem to the catalog id.
func (c *Catalog) Resolve(id string) (string, bool) {
	if _, ok := c.byID[id]; ok {
		return id, true
	}
	full, ok := c.byStem[id]
	return full, ok
}

// Lookup returns a copy of the stored result, so callers cannot alter the catalog.
func (c *Catalog) Lookup(id string) (PredictionResult, bool) {
	full, ok := c.Resolve(id)
	if !ok {
		return PredictionResult{}, false
	}
	res := c.byID[full]
	if res.Action != nil {
		res.Action = strPtr(*res.Action)
	}
	return res, true
}

func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

func (c *Catalog) Len() int {
	return len(c.ids)
}

// Stem strips directories and extension: "samples/running_dog.png" -> "running_dog".
func Stem(id string) string {
	base := path.Base(strings.ReplaceAll(id, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
