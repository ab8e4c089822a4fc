package logic

import (
	"fmt"
	"sort"
	"time"
)

// Recipe is an immutable cooking program selected by the operator.
type Recipe struct {
	ID                string
	Name              string
	Description       string
	TargetTemperature float64
	// CookDuration is the post-ingredient cook budget. Zero means the recipe
	// completes as soon as the target temperature is reached.
	CookDuration time.Duration
	// EnvelopingHeat spreads power toward the rim instead of the center.
	EnvelopingHeat bool
	// AutoStartsCooking skips the wait for ingredients.
	AutoStartsCooking bool
	Reservable        bool
	// AutoDetect enables cooking type and vessel inference.
	AutoDetect bool
}

// Instantaneous reports whether the recipe has no cook phase.
func (r Recipe) Instantaneous() bool {
	return r.CookDuration <= 0
}

// Validate checks the recipe against the physical limits in t.
func (r Recipe) Validate(t Tuning) error {
	if r.ID == "" {
		return fmt.Errorf("recipe %q: empty id", r.Name)
	}
	if r.TargetTemperature <= t.Ambient || r.TargetTemperature > t.Ceiling {
		return fmt.Errorf("recipe %s: target %.1f outside (%.1f, %.1f]",
			r.ID, r.TargetTemperature, t.Ambient, t.Ceiling)
	}
	if r.CookDuration < 0 {
		return fmt.Errorf("recipe %s: negative cook duration %v", r.ID, r.CookDuration)
	}
	return nil
}

// Catalog is the static set of recipes offered by the appliance.
type Catalog struct {
	order   []string
	recipes map[string]Recipe
}

// NewCatalog builds a catalog, rejecting duplicate IDs, invalid recipes and
// more than one auto-detect recipe.
func NewCatalog(t Tuning, recipes ...Recipe) (*Catalog, error) {
	c := &Catalog{recipes: make(map[string]Recipe, len(recipes))}
	autoDetect := ""
	for _, r := range recipes {
		if err := r.Validate(t); err != nil {
			return nil, err
		}
		if _, dup := c.recipes[r.ID]; dup {
			return nil, fmt.Errorf("recipe %s: duplicate id", r.ID)
		}
		if r.AutoDetect {
			if autoDetect != "" {
				return nil, fmt.Errorf("recipe %s: %s is already the auto-detect recipe", r.ID, autoDetect)
			}
			autoDetect = r.ID
		}
		c.recipes[r.ID] = r
		c.order = append(c.order, r.ID)
	}
	return c, nil
}

// Get returns a recipe by ID.
func (c *Catalog) Get(id string) (Recipe, error) {
	r, ok := c.recipes[id]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %q", ErrUnknownRecipe, id)
	}
	return r, nil
}

// List returns recipes in catalog order.
func (c *Catalog) List() []Recipe {
	out := make([]Recipe, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.recipes[id])
	}
	return out
}

// IDs returns the recipe IDs sorted alphabetically.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}
