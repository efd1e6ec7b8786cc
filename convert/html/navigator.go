package html

import (
	"maps"
	"slices"
)

// Mode of the page navigation.
type Mode int

const (
	// ModeMenu shows menu, no content block is visible.
	ModeMenu Mode = iota
	// ModeViewing hides menu and shows exactly one content block.
	ModeViewing
)

func (m Mode) String() string {
	if m == ModeViewing {
		return "viewing"
	}
	return "menu"
}

// State is current navigation state, Block is set only when viewing.
type State struct {
	Mode  Mode
	Block string
}

// Navigator models page navigation. Page script is generated from the same
// registry so both behave identically: selecting registered name shows its
// block, unknown names do nothing, back returns to menu.
type Navigator struct {
	names    []string
	elements map[string]string
	initial  State
	state    State
}

// NewNavigator registers content blocks in menu order. Element id of every
// block is derived from its name. Initial state shows block named by
// initial, or menu when no such block is registered.
func NewNavigator(names []string, initial string) *Navigator {
	n := &Navigator{elements: make(map[string]string, len(names))}
	for _, name := range names {
		if _, ok := n.elements[name]; ok || name == "" {
			continue
		}
		n.names = append(n.names, name)
		n.elements[name] = ElementID(name)
	}
	n.initial = State{Mode: ModeMenu}
	if _, ok := n.elements[initial]; ok {
		n.initial = State{Mode: ModeViewing, Block: initial}
	}
	n.state = n.initial
	return n
}

// ElementID returns id of page element holding named content block.
func ElementID(name string) string {
	return name + "Section"
}

// Select shows registered block. It reports whether state changed, selecting
// unknown name is a no-op.
func (n *Navigator) Select(name string) bool {
	if _, ok := n.elements[name]; !ok {
		return false
	}
	next := State{Mode: ModeViewing, Block: name}
	changed := n.state != next
	n.state = next
	return changed
}

// Back returns to menu from any state.
func (n *Navigator) Back() {
	n.state = State{Mode: ModeMenu}
}

// Reset returns navigator to its initial state, page does this on load.
func (n *Navigator) Reset() {
	n.state = n.initial
}

func (n *Navigator) State() State {
	return n.state
}

func (n *Navigator) Initial() State {
	return n.initial
}

// Registered reports whether name has content block.
func (n *Navigator) Registered(name string) bool {
	_, ok := n.elements[name]
	return ok
}

// Names returns registered names in menu order.
func (n *Navigator) Names() []string {
	return slices.Clone(n.names)
}

// Registry maps names to element ids, it is emitted into page script.
func (n *Navigator) Registry() map[string]string {
	return maps.Clone(n.elements)
}
