package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/primitives"
)

// DefaultVisualizer renders snapshots as Graphviz DOT or JSON.
type DefaultVisualizer struct{}

var stateColors = map[primitives.State]string{
	primitives.Running:    "lightgreen",
	primitives.Ready:      "lightblue",
	primitives.Waiting:    "orange",
	primitives.Terminated: "lightgrey",
}

// ExportDOT generates Graphviz DOT source for the thread graph. Solid edges
// point from a joiner to its join target; dashed edges give the ready-queue
// order starting at the running thread.
func (v *DefaultVisualizer) ExportDOT(snap core.Snapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Threads {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=\"rounded,filled\"];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	if snap.SchedulerID != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", "scheduler "+snap.SchedulerID)
	}

	for _, ti := range snap.Threads {
		label := fmt.Sprintf("%s\\n%s", ti.ID, ti.State)
		shape := ""
		if ti.Root {
			shape = " shape=ellipse"
		}
		if ti.Panic != "" {
			label += "\\npanicked"
		}
		fmt.Fprintf(&buf, "  %q [label=\"%s\" fillcolor=%s%s];\n", ti.ID.String(), label, colorOf(ti.State), shape)
	}

	for _, ti := range snap.Threads {
		for _, j := range ti.Joiners {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"join\"];\n", j.String(), ti.ID.String())
		}
	}

	prev := snap.Running
	for _, id := range snap.Ready {
		if prev != primitives.None {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed label=\"next\"];\n", prev.String(), id.String())
		}
		prev = id
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the snapshot to indented JSON.
func (v *DefaultVisualizer) ExportJSON(snap core.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

func colorOf(st primitives.State) string {
	if c, ok := stateColors[st]; ok {
		return c
	}
	return "white"
}
