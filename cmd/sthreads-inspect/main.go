// Command sthreads-inspect prints a saved scheduler snapshot as a thread
// table, Graphviz DOT or JSON.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/production"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o table|dot|json] <snapshot.json|snapshot.yaml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	output := flag.String("o", "table", "output: table, dot or json")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	snap, err := production.LoadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	v := &production.DefaultVisualizer{}
	switch *output {
	case "table":
		printTable(snap)
	case "dot":
		fmt.Print(v.ExportDOT(snap))
	case "json":
		data, err := v.ExportJSON(snap)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	default:
		fmt.Fprintf(os.Stderr, "unknown output %q\n", *output)
		os.Exit(2)
	}
}

func printTable(snap core.Snapshot) {
	fmt.Printf("scheduler %s at %s\n", snap.SchedulerID, snap.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("running %s, %d switches, drained %v\n\n", snap.Running, snap.Switches, snap.Drained)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tWAITING ON\tJOINERS\tPANIC")
	for _, ti := range snap.Threads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", ti.ID, ti.State, ti.WaitingOn, ti.Joiners, ti.Panic)
	}
	w.Flush()
}
