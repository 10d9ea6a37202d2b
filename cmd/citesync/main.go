// Command citesync inspects and synchronizes citation state in document
// snapshots: it recomputes citation order and labels, prints the ordered
// bibliography, reconciles the reference list, and serves live change
// notifications for preview tooling.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/alecthomas/kong"

	"github.com/pericope/citesync/core/citation"
	"github.com/pericope/citesync/core/doc"
	"github.com/pericope/citesync/core/docstore"
	"github.com/pericope/citesync/core/entity"
	"github.com/pericope/citesync/internal/logging"
	"github.com/pericope/citesync/internal/web"
)

const version = "0.1.0"

// CLI defines the command-line interface for citesync.
var CLI struct {
	// Global flags
	DB      string `name:"db" help:"Path to the SQLite record store" type:"path"`
	Style   string `name:"style" default:"[1,2-4]" help:"Label style template (e.g. \"[1,2-4]\", \"1,2\")"`
	Verbose bool   `name:"verbose" short:"v" help:"Enable debug logging"`

	Recompute  RecomputeCmd  `cmd:"" help:"Recompute citation order and labels for a snapshot"`
	Bib        BibCmd        `cmd:"" help:"Print the ordered bibliography of a snapshot"`
	UpdateRefs UpdateRefsCmd `cmd:"" name:"update-refs" help:"Reconcile the reference list to a new identifier set"`
	Serve      ServeCmd      `cmd:"" help:"Serve live change notifications over WebSocket"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
}

// openStore opens the configured record store, defaulting to an empty
// in-memory store when no database is given.
func openStore() (entity.Store, func(), error) {
	if CLI.DB == "" {
		return entity.NewMemStore(), func() {}, nil
	}
	s, err := entity.OpenSQL(CLI.DB)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

// loadController loads a snapshot and builds a controller over it with
// an initial recompute already run.
func loadController(snapshot string) (*doc.Document, *citation.Controller, func(), error) {
	d, err := docstore.Load(snapshot)
	if err != nil {
		return nil, nil, nil, err
	}

	style, err := citation.StyleFromTemplate(CLI.Style)
	if err != nil {
		return nil, nil, nil, err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return nil, nil, nil, err
	}

	ctrl, err := citation.NewController(citation.Config{
		Document: d,
		Entities: store,
		Labels:   style,
	})
	if err != nil {
		closeStore()
		return nil, nil, nil, err
	}

	ctrl.RecomputeNow()
	return d, ctrl, closeStore, nil
}

// RecomputeCmd recomputes and prints marker and entry labels.
type RecomputeCmd struct {
	Snapshot string `arg:"" help:"Path to the document snapshot (.xml or .xml.xz)" type:"path"`
}

// Run executes the recompute command.
func (c *RecomputeCmd) Run() error {
	_, ctrl, closeStore, err := loadController(c.Snapshot)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, view := range ctrl.GetBibliography() {
		if view.Position == 0 {
			fmt.Printf("  -  %s (uncited)\n", view.RID)
			continue
		}
		fmt.Printf("%3d  %s  %s\n", view.Position, view.Label, view.RID)
	}
	return nil
}

// BibCmd prints the ordered bibliography with resolved metadata.
type BibCmd struct {
	Snapshot string `arg:"" help:"Path to the document snapshot" type:"path"`
	JSON     bool   `name:"json" help:"Emit JSON instead of text"`
}

// Run executes the bib command.
func (c *BibCmd) Run() error {
	_, ctrl, closeStore, err := loadController(c.Snapshot)
	if err != nil {
		return err
	}
	defer closeStore()

	views := ctrl.GetBibliography()
	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	for _, view := range views {
		title := "(unresolved)"
		if view.Record != nil {
			title = view.Record.Title
		}
		label := view.Label
		if label == "" {
			label = "-"
		}
		fmt.Printf("%-6s %-12s %s\n", label, view.RID, title)
	}
	return nil
}

// UpdateRefsCmd reconciles the reference list to the given identifiers.
type UpdateRefsCmd struct {
	Snapshot string   `arg:"" help:"Path to the document snapshot" type:"path"`
	RIDs     []string `arg:"" optional:"" help:"Desired identifiers, in order"`
	DryRun   bool     `name:"dry-run" help:"Do not write the snapshot back"`
}

// Run executes the update-refs command.
func (c *UpdateRefsCmd) Run() error {
	d, ctrl, closeStore, err := loadController(c.Snapshot)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := ctrl.UpdateReferences(c.RIDs); err != nil {
		return err
	}

	fmt.Printf("references: %v\n", ctrl.GetReferenceIDs())
	if c.DryRun {
		return nil
	}
	return docstore.Save(c.Snapshot, d)
}

// ServeCmd serves change notifications over WebSocket for preview
// clients, plus the current bibliography as JSON.
type ServeCmd struct {
	Snapshot string `arg:"" help:"Path to the document snapshot" type:"path"`
	Addr     string `name:"addr" default:"127.0.0.1:8473" help:"Listen address"`
}

// Run executes the serve command.
func (c *ServeCmd) Run() error {
	_, ctrl, closeStore, err := loadController(c.Snapshot)
	if err != nil {
		return err
	}
	defer closeStore()

	hub := web.NewHub()
	go hub.Run()
	ctrl.OnNotify(hub.Broadcast)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handler)
	mux.HandleFunc("/bibliography", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ctrl.GetBibliography())
	})

	logging.Info("serving change notifications", "addr", c.Addr)
	return http.ListenAndServe(c.Addr, mux)
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run() error {
	fmt.Printf("citesync %s (sqlite driver: %s)\n", version, entity.DriverType())
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("citesync"),
		kong.Description("Citation and bibliography synchronization for document snapshots"),
		kong.UsageOnError(),
	)

	if CLI.Verbose {
		logging.InitLogger(logging.LevelDebug, logging.FormatText)
	}

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
