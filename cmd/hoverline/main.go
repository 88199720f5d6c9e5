package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/hoverline/backend"
)

func main() {
	follow := flag.Bool("follow", false, "keep reading the trace file as it grows")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [trace-file]\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "\nVisualize a CSV time series trace with an interactive tooltip.\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Reads from stdin when trace-file is \"-\". With no trace-file, opens\na file chooser.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mutator := stream.NewMutator(ctx, 0)
	bundle, err := backend.NewBundle(ctx, mutator)
	if err != nil {
		log.Fatalf("failed initializing backend: %v", err)
	}
	if path := flag.Arg(0); path != "" {
		switch {
		case path == "-":
			bundle.Datasource.LoadFromStream(backend.ModeReplaying, os.Stdin)
		case *follow:
			if _, err := bundle.Datasource.FollowFile(path); err != nil {
				log.Fatalf("failed following trace: %v", err)
			}
		default:
			f, err := os.Open(path)
			if err != nil {
				log.Fatalf("failed opening trace: %v", err)
			}
			bundle.Datasource.LoadFromStream(backend.ModeReplaying, f)
		}
	}

	w := app.NewWindow(app.Title("hoverline"))
	go func() {
		ws := backend.NewWindowState(ctx, bundle, w)
		expl := explorer.NewExplorer(w)
		if err := loop(w, ws, expl); err != nil {
			log.Fatal(err)
		}
		cancel()
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, ws backend.WindowState, expl *explorer.Explorer) error {
	ui := NewUI(ws, expl)
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case system.DestroyEvent:
			return ev.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
