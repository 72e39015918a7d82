package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownSection       = errors.New("unknown section")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrNoSections           = errors.New("navigator needs at least one section")
)

type Section string

// EnterFunc loads the data a section needs. The ticket identifies the
// activation; results must be applied only while Current(ticket) holds.
type EnterFunc func(ctx context.Context, t Ticket) error

// Spec declares one section: its label, the sections reachable from it
// (empty means any) and its on-enter effect.
type Spec struct {
	Section Section
	Label   string
	Next    []Section
	OnEnter EnterFunc
}

type Ticket struct {
	Section Section
	epoch   uint64
}

// Control is one navigation entry as rendered in the page header.
type Control struct {
	Section Section
	Label   string
	Active  bool
}

// Navigator holds exactly one active section.
type Navigator struct {
	mu      sync.RWMutex
	order   []Section
	specs   map[Section]Spec
	allowed map[Section]map[Section]bool
	active  Section
	epoch   uint64
}

// New builds a navigator whose initial section is the first spec.
func New(specs ...Spec) (*Navigator, error) {
	if len(specs) == 0 {
		return nil, ErrNoSections
	}

	n := &Navigator{
		specs:   make(map[Section]Spec, len(specs)),
		allowed: make(map[Section]map[Section]bool, len(specs)),
	}
	for _, s := range specs {
		if _, dup := n.specs[s.Section]; dup {
			return nil, fmt.Errorf("duplicate section %q", s.Section)
		}
		n.order = append(n.order, s.Section)
		n.specs[s.Section] = s
	}
	for _, s := range specs {
		if len(s.Next) == 0 {
			continue
		}
		set := make(map[Section]bool, len(s.Next))
		for _, next := range s.Next {
			if _, ok := n.specs[next]; !ok {
				return nil, fmt.Errorf("%w: %q in transitions of %q", ErrUnknownSection, next, s.Section)
			}
			set[next] = true
		}
		n.allowed[s.Section] = set
	}
	n.active = n.order[0]
	return n, nil
}

// MustNew panics on an invalid declaration. Section tables are static.
func MustNew(specs ...Spec) *Navigator {
	n, err := New(specs...)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Navigator) Active() Section {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.active
}

func (n *Navigator) IsActive(s Section) bool {
	return n.Active() == s
}

func (n *Navigator) Has(s Section) bool {
	_, ok := n.specs[s]
	return ok
}

// CanActivate reports whether s is reachable from the active section.
func (n *Navigator) CanActivate(s Section) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.canActivate(s) == nil
}

func (n *Navigator) canActivate(s Section) error {
	if _, ok := n.specs[s]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	if set, ok := n.allowed[n.active]; ok && s != n.active && !set[s] {
		return fmt.Errorf("%w: %q -> %q", ErrTransitionNotAllowed, n.active, s)
	}
	return nil
}

// Activate switches to s and runs its on-enter effect. The switch itself is
// synchronous and never rolled back; a load error is returned to the caller.
func (n *Navigator) Activate(ctx context.Context, s Section) (Ticket, error) {
	n.mu.Lock()
	if err := n.canActivate(s); err != nil {
		n.mu.Unlock()
		return Ticket{}, err
	}
	n.active = s
	n.epoch++
	t := Ticket{Section: s, epoch: n.epoch}
	enter := n.specs[s].OnEnter
	n.mu.Unlock()

	if enter == nil {
		return t, nil
	}
	return t, enter(ctx, t)
}

// Current reports whether t is still the latest activation.
func (n *Navigator) Current(t Ticket) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return t.epoch == n.epoch && t.Section == n.active
}

// Controls returns the navigation entries in declaration order with exactly
// one marked active.
func (n *Navigator) Controls() []Control {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]Control, 0, len(n.order))
	for _, s := range n.order {
		out = append(out, Control{
			Section: s,
			Label:   n.specs[s].Label,
			Active:  s == n.active,
		})
	}
	return out
}

// Reset returns to the initial section without running its effect.
func (n *Navigator) Reset() {
	n.mu.Lock()
	n.active = n.order[0]
	n.epoch++
	n.mu.Unlock()
}
