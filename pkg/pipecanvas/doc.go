/*
Package pipecanvas provides the state engine for an interactive
pipeline editor: a canvas of typed processing nodes connected by edges,
with bounded undo/redo and a reconciliation protocol toward whatever
layer renders it.

# Overview

The engine owns the canonical graph state. A rendering library keeps
its own transient mirror of that state (drag positions, selection,
pan/zoom) for responsiveness; the reconcile package mediates between
the two so they never desynchronize or feed back into each other.

The core pieces:

  - GraphState, Node, Edge: immutable snapshots; every edit is a pure
    function producing a fresh value (graph.go)
  - history.Store: bounded, branch-truncating undo/redo over those
    snapshots
  - handle derivation: connection points computed from node type, or
    from {{variable}} references in node text, never stored
  - Editor: the facade the command and reconciliation layers dispatch
    into
  - reconcile.Controller: commit-on-settle between mirror and canonical
  - command.Router: keyboard/pointer intents with precedence rules
  - bridge.Client: serialization to the external pipeline validator

# Basic Usage

Build an editor, place nodes, connect them, and navigate history:

	ed := pipecanvas.NewEditor(pipecanvas.WithMaxHistory(100))

	in, _ := ed.AddNode(pipecanvas.TypeInput, pipecanvas.Position{X: 0, Y: 0})
	out, _ := ed.AddNode(pipecanvas.TypeOutput, pipecanvas.Position{X: 300, Y: 0})
	ed.Connect(in.ID, "value", out.ID, "value")

	ed.Undo() // edge gone
	ed.Redo() // edge back

# Derived Handles

Text nodes compute their input handles from embedded variable
references, recomputed on every read so undo/redo keeps handles
consistent with the text at each history point:

	node, _ := ed.AddNode(pipecanvas.TypeText, pipecanvas.Position{})
	ed.PatchNodeData(node.ID, map[string]any{"text": "Hello {{name}}, {{age}}"})
	handles, _ := ed.Handles(node.ID) // name, age, output

# Validation

Wire a validator and submit the pipeline; the verdict arrives as a
user notice and a ValidationReport:

	ed := pipecanvas.NewEditor(
	    pipecanvas.WithValidator(bridge.NewClient("http://localhost:8000")),
	)
	report, err := ed.Validate(ctx)

# Scheduling

The engine is single-threaded and event-driven. Run it on a sched.Loop
and its re-entrancy guards clear on tick boundaries, covering every
synchronous downstream reaction to a history transition. See the sched
package.
*/
package pipecanvas
