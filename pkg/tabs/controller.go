// Package tabs decides which registered fields are on display. Tabs are a
// presentation concern only: selecting a tab never changes values or
// errors, and submission always validates every tab.
package tabs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-formstate/internal/suggest"
	"github.com/goliatone/go-formstate/pkg/model"
)

// ErrUnknownTab is returned when selecting a tab outside the configured order.
var ErrUnknownTab = errors.New("tabs: unknown tab")

// Definitions is the registry view the controller reads.
type Definitions interface {
	AllDefinitions() []model.FieldDefinition
}

// Controller tracks the active tab over a fixed order.
type Controller struct {
	defs  Definitions
	order []model.TabID

	mu     sync.RWMutex
	active int
}

// New constructs a controller over defs. An empty order falls back to
// model.DefaultTabOrder. The first tab starts active.
func New(defs Definitions, order ...model.TabID) *Controller {
	if len(order) == 0 {
		order = model.DefaultTabOrder
	}
	seen := make(map[model.TabID]struct{}, len(order))
	clean := make([]model.TabID, 0, len(order))
	for _, id := range order {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	return &Controller{defs: defs, order: clean}
}

// Tabs returns the navigation order.
func (c *Controller) Tabs() []model.TabID {
	return append([]model.TabID(nil), c.order...)
}

// Has reports whether id is part of the order.
func (c *Controller) Has(id model.TabID) bool {
	return c.indexOf(id) >= 0
}

// Active returns the selected tab.
func (c *Controller) Active() model.TabID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.order) == 0 {
		return ""
	}
	return c.order[c.active]
}

// SelectTab makes id active. Unknown ids leave the selection unchanged.
func (c *Controller) SelectTab(id model.TabID) error {
	idx := c.indexOf(id)
	if idx < 0 {
		names := make([]string, len(c.order))
		for i, tab := range c.order {
			names[i] = string(tab)
		}
		return fmt.Errorf("%w: %q%s", ErrUnknownTab, id, suggest.Hint(string(id), names))
	}
	c.mu.Lock()
	c.active = idx
	c.mu.Unlock()
	return nil
}

// Next moves to the following tab, staying put on the last one.
func (c *Controller) Next() model.TabID {
	return c.step(1)
}

// Previous moves to the preceding tab, staying put on the first one.
func (c *Controller) Previous() model.TabID {
	return c.step(-1)
}

// IsLast reports whether the active tab is the final one in the order.
func (c *Controller) IsLast() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order) > 0 && c.active == len(c.order)-1
}

// SubmitVisible reports whether renderers should offer the submit control.
// It is a display policy; submission itself is never gated on it.
func (c *Controller) SubmitVisible() bool {
	return c.IsLast()
}

// ActiveFields returns the definitions owned by the active tab, in
// registration order.
func (c *Controller) ActiveFields() []model.FieldDefinition {
	return c.FieldsFor(c.Active())
}

// FieldsFor returns the definitions owned by tab, in registration order.
func (c *Controller) FieldsFor(tab model.TabID) []model.FieldDefinition {
	var out []model.FieldDefinition
	for _, def := range c.defs.AllDefinitions() {
		if def.Tab == tab {
			out = append(out, def)
		}
	}
	return out
}

func (c *Controller) step(delta int) model.TabID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		return ""
	}
	next := c.active + delta
	if next < 0 {
		next = 0
	}
	if next >= len(c.order) {
		next = len(c.order) - 1
	}
	c.active = next
	return c.order[next]
}

func (c *Controller) indexOf(id model.TabID) int {
	for i, tab := range c.order {
		if tab == id {
			return i
		}
	}
	return -1
}
