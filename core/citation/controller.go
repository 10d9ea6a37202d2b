package citation

import (
	"sort"
	"time"

	"github.com/pericope/citesync/core/doc"
	"github.com/pericope/citesync/core/entity"
	"github.com/pericope/citesync/core/errors"
	"github.com/pericope/citesync/core/reconcile"
	"github.com/pericope/citesync/internal/logging"
)

// markerSelector finds all in-scope citation markers in document order.
const markerSelector = `//` + MarkerType + `[@` + RefKindAttr + `='` + KindBibliography + `']`

// refListSelector finds the bibliography container.
const refListSelector = `//` + RefListType

// Notification names every node touched by one recompute: every updated
// marker id, every updated entry id, and the bibliography container id.
type Notification struct {
	Updated []string
}

// EntryView is one bibliography entry with its derived state and lazily
// resolved record.
type EntryView struct {
	NodeID   string
	RID      string
	Position int // 0 = unset (uncited)
	Label    string
	Record   *entity.Record // nil when unresolved
}

// Config holds the collaborators for NewController.
type Config struct {
	// Document is the document tree to synchronize against. Required.
	Document *doc.Document

	// Entities resolves bibliographic records for display. Required.
	Entities entity.Store

	// Labels renders positions into labels. Defaults to NumericStyle.
	Labels LabelGenerator

	// Scheduler defers recomputes past the current unit of work.
	// Defaults to a new LoopScheduler.
	Scheduler Scheduler
}

// Controller keeps derived citation state (positions, labels) consistent
// with the document. It subscribes to document change notifications,
// classifies them, and coalesces relevant changes into a single deferred
// recompute. Single-threaded cooperative model: all mutation and
// recompute logic runs on one logical thread of control.
type Controller struct {
	doc        *doc.Document
	entities   entity.Store
	labels     LabelGenerator
	sched      Scheduler
	classifier *Classifier

	// pending is true while a recompute is scheduled but has not fired.
	pending bool

	// derived is the transient state table keyed by node id, replaced
	// wholesale on every recompute.
	derived map[string]Derived

	// records caches resolved entity records, write-once per rid.
	records map[string]*entity.Record

	observers []func(Notification)
}

// NewController creates a controller and subscribes it to the document's
// change notifications. Fails fast when a required collaborator is
// missing.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Document == nil {
		return nil, errors.NewConstruction("controller", "document")
	}
	if cfg.Entities == nil {
		return nil, errors.NewConstruction("controller", "entity store")
	}

	c := &Controller{
		doc:        cfg.Document,
		entities:   cfg.Entities,
		labels:     cfg.Labels,
		sched:      cfg.Scheduler,
		classifier: NewClassifier(cfg.Document),
		derived:    make(map[string]Derived),
		records:    make(map[string]*entity.Record),
	}
	if c.labels == nil {
		c.labels = NumericStyle{}
	}
	if c.sched == nil {
		c.sched = NewLoopScheduler()
	}

	c.doc.OnChange(c.handleChange)
	return c, nil
}

// OnNotify registers an observer for aggregated change notifications
// emitted after each recompute.
func (c *Controller) OnNotify(fn func(Notification)) {
	c.observers = append(c.observers, fn)
}

// Derived returns the transient computed state for a node id.
func (c *Controller) Derived(id string) (Derived, bool) {
	d, ok := c.derived[id]
	return d, ok
}

// handleChange classifies one committed mutation batch. A relevant batch
// schedules a recompute unless one is already pending; the single pending
// recompute sees the latest document state when it fires.
func (c *Controller) handleChange(ops []doc.MutationOp) {
	if !c.classifier.Relevant(ops) {
		logging.Debug("change batch not citation-relevant", "ops", len(ops))
		return
	}
	if c.pending {
		return
	}
	c.pending = true
	c.sched.Defer(c.deferredRecompute)
}

// deferredRecompute runs a scheduled recompute unless an eager recompute
// already consumed it, which keeps a RecomputeNow between scheduling and
// draining from producing a duplicate pass.
func (c *Controller) deferredRecompute() {
	if !c.pending {
		return
	}
	c.recompute()
}

// markers re-reads the current in-scope markers in document order.
func (c *Controller) markers() []Marker {
	nodes := c.doc.FindAll(markerSelector)
	markers := make([]Marker, 0, len(nodes))
	for _, n := range nodes {
		markers = append(markers, Marker{
			ID:   n.ID(),
			RIDs: ParseRIDs(n.Attr(RIDsAttr)),
		})
	}
	return markers
}

// RecomputeNow runs one full recompute immediately, bypassing the
// scheduler. Idempotent: without intervening document mutation, repeated
// runs yield identical derived state.
func (c *Controller) RecomputeNow() {
	c.recompute()
}

// recompute re-reads the in-scope marker list, computes positions and
// labels, replaces the derived-state table wholesale, and emits one
// aggregated notification. With zero in-scope markers it is a no-op: no
// state writes, no notification.
func (c *Controller) recompute() {
	c.pending = false

	markers := c.markers()
	if len(markers) == 0 {
		return
	}

	start := time.Now()
	res := ComputeOrder(markers, c.labels)

	derived := make(map[string]Derived, len(res.MarkerLabels))
	updated := make([]string, 0, len(markers)+1)

	for _, marker := range markers {
		derived[marker.ID] = Derived{Label: res.MarkerLabels[marker.ID]}
		updated = append(updated, marker.ID)
	}

	entries := 0
	if container, ok := c.doc.Find(refListSelector); ok {
		for _, child := range container.Children() {
			if child.Type() != RefType {
				continue
			}
			rid := child.Attr(RefKeyAttr)
			derived[child.ID()] = Derived{
				Position: res.Order[rid],
				Label:    res.EntryLabels[rid],
			}
			updated = append(updated, child.ID())
			entries++
		}
		updated = append(updated, container.ID())
	}

	c.derived = derived

	n := Notification{Updated: updated}
	for _, observer := range c.observers {
		observer(n)
	}

	logging.RecomputeEvent(len(markers), entries, time.Since(start))
}

// resolve looks up the record for rid, caching the first success.
// The cache is append-only and never invalidated; absence is tolerated
// and retried on the next call.
func (c *Controller) resolve(rid string) *entity.Record {
	if r, ok := c.records[rid]; ok {
		return r
	}
	r, ok := c.entities.Get(rid)
	if !ok {
		return nil
	}
	c.records[rid] = r
	return r
}

// GetBibliography returns the bibliography entry views sorted ascending
// by position, entries without a position last, ties broken by rid.
// Only existing children of the persisted container are reflected; cited
// identifiers without an entry are not auto-created.
func (c *Controller) GetBibliography() []EntryView {
	container, ok := c.doc.Find(refListSelector)
	if !ok {
		return nil
	}

	var views []EntryView
	for _, child := range container.Children() {
		if child.Type() != RefType {
			continue
		}
		rid := child.Attr(RefKeyAttr)
		state := c.derived[child.ID()]
		views = append(views, EntryView{
			NodeID:   child.ID(),
			RID:      rid,
			Position: state.Position,
			Label:    state.Label,
			Record:   c.resolve(rid),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		vi, vj := views[i], views[j]
		if (vi.Position == 0) != (vj.Position == 0) {
			return vj.Position == 0
		}
		if vi.Position != vj.Position {
			return vi.Position < vj.Position
		}
		return vi.RID < vj.RID
	})
	return views
}

// GetReferenceIDs returns the identifiers of the persisted bibliography
// entries in container order.
func (c *Controller) GetReferenceIDs() []string {
	container, ok := c.doc.Find(refListSelector)
	if !ok {
		return nil
	}
	var rids []string
	for _, child := range container.Children() {
		if child.Type() == RefType {
			rids = append(rids, child.Attr(RefKeyAttr))
		}
	}
	return rids
}

// UpdateReferences declares the desired full set and order of
// bibliography identifiers and reconciles the persisted container to it
// with a minimal edit sequence.
func (c *Controller) UpdateReferences(newIDs []string) error {
	container, ok := c.doc.Find(refListSelector)
	if !ok {
		return errors.NewNotFound(RefListType, "")
	}

	ops, err := reconcile.Apply(c.doc, container.ID(), RefType, RefKeyAttr, newIDs)
	if err != nil {
		return errors.Wrap(err, "updating references")
	}

	inserts, removes, moves := 0, 0, 0
	for _, op := range ops {
		switch op.Kind {
		case reconcile.OpInsert:
			inserts++
		case reconcile.OpRemove:
			removes++
		case reconcile.OpMove:
			moves++
		}
	}
	logging.ReconcileEvent(container.ID(), inserts, removes, moves)
	return nil
}
