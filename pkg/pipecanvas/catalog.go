package pipecanvas

import "github.com/pipecanvas/pipecanvas/pkg/pipecanvas/registry"

// NodeType defines a node type at the registry boundary: the data a
// new node starts with, its handle policy, and presentational
// metadata. The engine treats the set of types as open; only handle
// derivation knows that some types compute handles from content.
type NodeType struct {
	// Tag is the type identifier carried in Node.Type and in
	// drag-and-drop payloads.
	Tag string

	// Label is the display name for palettes and headers.
	Label string

	// DefaultData seeds Node.Data on creation.
	DefaultData map[string]any

	// Handles is the static, ordered handle list. Ignored when
	// DerivedHandles is set.
	Handles []Handle

	// DerivedHandles marks the type whose handles are computed from
	// the node's text content instead of fixed per type.
	DerivedHandles bool
}

// HandlesFor returns the node's current handle list: the static list
// for fixed types, or a fresh derivation from data["text"] for
// content-driven types.
func (t NodeType) HandlesFor(n Node) []Handle {
	if t.DerivedHandles {
		text, _ := n.Data["text"].(string)
		return DeriveTextHandles(text)
	}
	out := make([]Handle, len(t.Handles))
	copy(out, t.Handles)
	return out
}

// TypeRegistry maps type tags to their definitions.
type TypeRegistry = registry.Registry[string, NodeType]

// Builtin node type tags.
const (
	TypeInput     = "input"
	TypeOutput    = "output"
	TypeLLM       = "llm"
	TypeText      = "text"
	TypeFilter    = "filter"
	TypeTransform = "transform"
	TypeAggregate = "aggregate"
	TypeDelay     = "delay"
)

// BuiltinTypes returns the definitions the editor ships with. The text
// type is the one content-driven type; all others carry static handle
// lists.
func BuiltinTypes() map[string]NodeType {
	return map[string]NodeType{
		TypeInput: {
			Tag:         TypeInput,
			Label:       "Input",
			DefaultData: map[string]any{"name": "input", "inputType": "Text"},
			Handles: []Handle{
				{ID: "value", Direction: DirectionOut, Anchor: AnchorRight},
			},
		},
		TypeOutput: {
			Tag:         TypeOutput,
			Label:       "Output",
			DefaultData: map[string]any{"name": "output", "outputType": "Text"},
			Handles: []Handle{
				{ID: "value", Direction: DirectionIn, Anchor: AnchorLeft},
			},
		},
		TypeLLM: {
			Tag:         TypeLLM,
			Label:       "LLM",
			DefaultData: map[string]any{"model": "gpt-4"},
			Handles: []Handle{
				{ID: "system", Direction: DirectionIn, Anchor: AnchorLeft},
				{ID: "prompt", Direction: DirectionIn, Anchor: AnchorLeft},
				{ID: "response", Direction: DirectionOut, Anchor: AnchorRight},
			},
		},
		TypeText: {
			Tag:            TypeText,
			Label:          "Text",
			DefaultData:    map[string]any{"text": "{{input}}"},
			DerivedHandles: true,
		},
		TypeFilter: {
			Tag:         TypeFilter,
			Label:       "Filter",
			DefaultData: map[string]any{"condition": "contains"},
			Handles: []Handle{
				{ID: "input", Direction: DirectionIn, Anchor: AnchorLeft},
				{ID: "passed", Direction: DirectionOut, Anchor: AnchorRight},
				{ID: "rejected", Direction: DirectionOut, Anchor: AnchorBottom},
			},
		},
		TypeTransform: {
			Tag:         TypeTransform,
			Label:       "Transform",
			DefaultData: map[string]any{"operation": "uppercase"},
			Handles: []Handle{
				{ID: "input", Direction: DirectionIn, Anchor: AnchorLeft},
				{ID: "output", Direction: DirectionOut, Anchor: AnchorRight},
			},
		},
		TypeAggregate: {
			Tag:         TypeAggregate,
			Label:       "Aggregate",
			DefaultData: map[string]any{"mode": "concat"},
			Handles: []Handle{
				{ID: "first", Direction: DirectionIn, Anchor: AnchorLeft},
				{ID: "second", Direction: DirectionIn, Anchor: AnchorLeft},
				{ID: "result", Direction: DirectionOut, Anchor: AnchorRight},
			},
		},
		TypeDelay: {
			Tag:         TypeDelay,
			Label:       "Delay",
			DefaultData: map[string]any{"seconds": 1},
			Handles: []Handle{
				{ID: "input", Direction: DirectionIn, Anchor: AnchorLeft},
				{ID: "output", Direction: DirectionOut, Anchor: AnchorRight},
			},
		},
	}
}

// NewTypeRegistry returns a registry pre-populated with the builtin
// catalog. Callers extend it with Register.
func NewTypeRegistry() *TypeRegistry {
	r := registry.New[string, NodeType]()
	r.RegisterMany(BuiltinTypes())
	return r
}
