package pipecanvas

import (
	"regexp"
	"strings"
)

// Direction tells whether a handle accepts or emits connections.
type Direction string

// Handle directions.
const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Anchor hints for where the rendering layer should place a handle.
// The engine never interprets these; they ride along to the registry's
// presentational metadata.
const (
	AnchorLeft   = "left"
	AnchorRight  = "right"
	AnchorTop    = "top"
	AnchorBottom = "bottom"
)

// Handle is a named, directional connection point on a node.
type Handle struct {
	ID        string    `json:"id"`
	Direction Direction `json:"direction"`
	Anchor    string    `json:"anchor,omitempty"`
}

// OutputHandleID is the fixed output handle on content-driven nodes,
// always appended after the derived inputs.
const OutputHandleID = "output"

// variablePattern matches {{name}} references. An unbalanced "{{" has
// no closing braces and simply never matches; malformed syntax yields
// no handle rather than an error.
var variablePattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// Variables scans free text for {{name}} references and returns the
// distinct names in first-occurrence order. Names are trimmed of
// surrounding whitespace; empty or whitespace-only references are
// discarded. Repeated references to the same name yield one entry.
func Variables(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range variablePattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// DeriveTextHandles maps free text to the handle list of a
// content-driven node: one input handle per distinct embedded variable
// (first-occurrence order), plus the fixed output handle last.
//
// The result is always recomputed from the current text and never
// stored on the node, so undo/redo keeps handles consistent with the
// text at each history point without extra bookkeeping.
func DeriveTextHandles(text string) []Handle {
	names := Variables(text)
	handles := make([]Handle, 0, len(names)+1)
	for _, name := range names {
		handles = append(handles, Handle{ID: name, Direction: DirectionIn, Anchor: AnchorLeft})
	}
	return append(handles, Handle{ID: OutputHandleID, Direction: DirectionOut, Anchor: AnchorRight})
}
