package listsync

import (
	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/logging"
)

// Renderer receives every reconciliation. Apply is called with the new
// snapshot and the changes since the previous one, even when there are none.
// SetEmpty is only called by reconciliations that check for empty results.
type Renderer interface {
	Apply(next Snapshot, changes Changeset)
	SetEmpty(empty bool)
}

// Engine holds the inputs of one screen and reconciles its renderer when they
// change. It starts connected with no entities and no filter.
type Engine struct {
	composer Composer
	renderer Renderer
	log      logrus.FieldLogger

	entities  []linetv.Drama
	filter    string
	connected bool
	guard     Guard

	last Snapshot
}

// NewEngine builds an engine. Nothing is rendered until the first change or
// Reload.
func NewEngine(composer Composer, renderer Renderer, log logrus.FieldLogger) *Engine {
	return &Engine{
		composer:  composer,
		renderer:  renderer,
		log:       logging.OrDiscard(log),
		connected: true,
	}
}

// SetEntities replaces the entity collection wholesale. Duplicate ids keep
// their first occurrence.
func (e *Engine) SetEntities(dramas []linetv.Drama) {
	e.entities = dedupe(dramas, e.log)
	e.changed(true)
}

// SetFilter sets the search text. Empty text shows everything.
func (e *Engine) SetFilter(text string) {
	e.filter = text
	e.changed(true)
}

// SetConnected records connectivity. It never touches the empty indicator.
func (e *Engine) SetConnected(connected bool) {
	e.connected = connected
	e.changed(false)
}

// WithSuspended runs fn with reconciliation suppressed. Setters called inside
// fn update state only.
func (e *Engine) WithSuspended(fn func()) {
	e.guard.Run(fn)
}

// Suspended reports whether a WithSuspended call is in progress.
func (e *Engine) Suspended() bool {
	return e.guard.Active()
}

// Entities returns the current collection.
func (e *Engine) Entities() []linetv.Drama {
	return append([]linetv.Drama(nil), e.entities...)
}

// Filter returns the current search text.
func (e *Engine) Filter() string { return e.filter }

// Connected returns the current connectivity flag.
func (e *Engine) Connected() bool { return e.connected }

// Snapshot composes the current state without emitting anything.
func (e *Engine) Snapshot() Snapshot {
	return e.composer.Compose(State{
		Entities:  e.entities,
		Filter:    e.filter,
		Connected: e.connected,
	})
}

// Last returns the most recently emitted snapshot.
func (e *Engine) Last() Snapshot {
	return e.last
}

// Reload composes, diffs against the last emitted snapshot and hands the
// result to the renderer. With checkEmpty it also reports whether the
// content is empty.
func (e *Engine) Reload(checkEmpty bool) {
	next := e.Snapshot()
	changes := Diff(e.last, next)
	e.last = next

	e.log.WithFields(logrus.Fields{
		"section_changes": len(changes.Sections),
		"item_changes":    len(changes.Items),
		"items":           next.Len(),
	}).Debug("reconciled list")

	if e.renderer == nil {
		return
	}
	e.renderer.Apply(next, changes)
	if checkEmpty {
		e.renderer.SetEmpty(next.ContentEmpty())
	}
}

func (e *Engine) changed(checkEmpty bool) {
	if e.guard.Active() {
		return
	}
	e.Reload(checkEmpty)
}

func dedupe(dramas []linetv.Drama, log logrus.FieldLogger) []linetv.Drama {
	seen := make(map[int64]struct{}, len(dramas))
	out := make([]linetv.Drama, 0, len(dramas))
	for _, d := range dramas {
		if _, dup := seen[d.ID]; dup {
			log.WithField("drama_id", d.ID).Warn("dropping duplicate drama id")
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d)
	}
	return out
}
