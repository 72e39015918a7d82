package listing

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"agrimarket/internal/model"
)

type State int

const (
	Unloaded State = iota
	Loaded
)

// View is the outcome of applying criteria to the cache.
type View struct {
	State    State
	Items    []model.Crop
	Criteria Criteria
	Sort     SortKey
}

func (v View) Loaded() bool {
	return v.State == Loaded
}

// Summary is the result count line shown above the grid.
func (v View) Summary() string {
	if !v.Loaded() {
		return "Loading crops..."
	}
	if len(v.Items) == 0 {
		return "0 crops found"
	}
	return fmt.Sprintf("Showing %d crops", len(v.Items))
}

// Engine caches the full listing collection and derives filtered views from it.
type Engine struct {
	mu     sync.RWMutex
	state  State
	source []model.Crop
}

func NewEngine() *Engine {
	return &Engine{}
}

// Load replaces the cache with a copy of crops.
func (e *Engine) Load(crops []model.Crop) {
	cp := make([]model.Crop, len(crops))
	copy(cp, crops)

	e.mu.Lock()
	e.source = cp
	e.state = Loaded
	e.mu.Unlock()
}

// Reset drops the cache and returns to Unloaded.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.source = nil
	e.state = Unloaded
	e.mu.Unlock()
}

func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == Loaded
}

// All returns a copy of the cache.
func (e *Engine) All() []model.Crop {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make([]model.Crop, len(e.source))
	copy(cp, e.source)
	return cp
}

// Lookup finds a cached crop by id.
func (e *Engine) Lookup(id string) (model.Crop, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.source {
		if c.ID == id {
			return c, true
		}
	}
	return model.Crop{}, false
}

// Apply filters then sorts. The cache is never mutated.
func (e *Engine) Apply(cr Criteria, key SortKey) View {
	e.mu.RLock()
	state := e.state
	src := e.source
	e.mu.RUnlock()

	v := View{State: state, Criteria: cr, Sort: key}
	if state == Unloaded {
		return v
	}
	v.Items = Sort(Filter(src, cr), key)
	return v
}

// Filter returns a new slice with the crops matching cr.
func Filter(src []model.Crop, cr Criteria) []model.Crop {
	cr = cr.Normalize()
	out := make([]model.Crop, 0, len(src))
	for _, c := range src {
		if Matches(c, cr) {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders items in place with a stable sort and returns them.
func Sort(items []model.Crop, key SortKey) []model.Crop {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.LessThan(items[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.GreaterThan(items[j].Price) })
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	}
	return items
}

// Facets lists the distinct categories and locations present in the cache.
func (e *Engine) Facets() (categories, locations []string) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seenCat := map[string]bool{}
	seenLoc := map[string]bool{}
	for _, c := range e.source {
		if k := strings.ToLower(c.Category); k != "" && !seenCat[k] {
			seenCat[k] = true
			categories = append(categories, k)
		}
		if c.Location != "" && !seenLoc[c.Location] {
			seenLoc[c.Location] = true
			locations = append(locations, c.Location)
		}
	}
	sort.Strings(categories)
	sort.Strings(locations)
	return categories, locations
}
