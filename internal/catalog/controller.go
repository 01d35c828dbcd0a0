package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/five82/reel/internal/connectivity"
	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/listsync"
	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/mainloop"
	"github.com/five82/reel/internal/offline"
	"github.com/five82/reel/internal/state"
)

// Loop is the serialized context the controller posts to.
type Loop interface {
	mainloop.Poster
	Sync(ctx context.Context, fn func()) error
}

// Options wire a Controller. Path defaults to linetv.DramasPath and Status to
// a fresh store.
type Options struct {
	Loop    Loop
	Monitor *connectivity.Monitor
	Fetcher linetv.Fetcher
	Cache   *offline.Cache
	Status  *state.Store
	Path    string
	Log     logrus.FieldLogger
}

// Controller connects the list engine to connectivity, fetches and the
// offline cache.
type Controller struct {
	loop    Loop
	monitor *connectivity.Monitor
	fetcher linetv.Fetcher
	cache   *offline.Cache
	status  *state.Store
	path    string
	log     logrus.FieldLogger

	engine *listsync.Engine
	sub    *connectivity.Subscription
	seeded bool // loop-confined

	// keyword writes run here, one at a time, in Search order
	writer     *mainloop.Loop
	writerDone chan struct{}
}

// New builds a controller rendering the list into renderer.
func New(opts Options, renderer listsync.Renderer) (*Controller, error) {
	switch {
	case opts.Loop == nil:
		return nil, errors.New("catalog: loop is required")
	case opts.Monitor == nil:
		return nil, errors.New("catalog: monitor is required")
	case opts.Fetcher == nil:
		return nil, errors.New("catalog: fetcher is required")
	case opts.Cache == nil:
		return nil, errors.New("catalog: cache is required")
	}
	path := opts.Path
	if path == "" {
		path = linetv.DramasPath
	}
	status := opts.Status
	if status == nil {
		status = &state.Store{}
	}
	log := logging.OrDiscard(opts.Log).WithField("component", "catalog")
	c := &Controller{
		loop:       opts.Loop,
		monitor:    opts.Monitor,
		fetcher:    opts.Fetcher,
		cache:      opts.Cache,
		status:     status,
		path:       path,
		log:        log,
		engine:     listsync.NewEngine(listsync.ListComposer{}, renderer, log),
		writer:     mainloop.New(),
		writerDone: make(chan struct{}),
	}
	go func() {
		defer close(c.writerDone)
		_ = c.writer.Run(context.Background())
	}()
	return c, nil
}

// Status exposes fetch activity for status displays.
func (c *Controller) Status() *state.Store {
	return c.status
}

// Start restores the persisted keyword and catalog, renders once and begins
// following connectivity. Cache failures are logged and skipped. Changes
// delivered before the seeding pass are not applied on their own; the pass
// reads the monitor's latest observation instead.
func (c *Controller) Start(ctx context.Context) error {
	keyword, hasKeyword, err := c.cache.LoadLastKeyword(ctx)
	if err != nil {
		c.log.WithError(err).Warn("restore keyword failed")
	}
	seed := c.loadCached(ctx)

	sub := c.monitor.Subscribe(func(connected bool) {
		if c.seeded {
			c.engine.SetConnected(connected)
		}
	})
	posted := c.loop.Post(func() {
		c.sub = sub
		c.engine.WithSuspended(func() {
			if hasKeyword {
				c.engine.SetFilter(keyword)
			}
			if seed != nil {
				c.engine.SetEntities(seed)
			}
			if connected, ok := c.monitor.Observed(); ok {
				c.engine.SetConnected(connected)
			}
		})
		if seed != nil {
			c.status.Seeded(len(seed))
		}
		c.seeded = true
		c.engine.Reload(true)
	})
	if !posted {
		sub.Cancel()
		return mainloop.ErrClosed
	}
	c.log.WithFields(logrus.Fields{
		"keyword": keyword,
		"seeded":  len(seed),
	}).Debug("catalog started")
	return nil
}

func (c *Controller) loadCached(ctx context.Context) []linetv.Drama {
	raw, ok, err := c.cache.LoadResponse(ctx, c.path)
	if err != nil {
		c.log.WithError(err).Warn("restore cached catalog failed")
		return nil
	}
	if !ok {
		return nil
	}
	dramas, err := linetv.DecodeDramas(raw)
	if err != nil {
		c.log.WithError(err).Warn("cached catalog unreadable")
		return nil
	}
	return dramas
}

// Refresh fetches the catalog in the background. done runs on the loop once
// the result has been applied and reports whether the fetch succeeded.
// Overlapping refreshes are not merged; the last one to finish wins.
func (c *Controller) Refresh(ctx context.Context, done func(ok bool)) {
	c.status.Begin()
	go func() {
		dramas, raw, err := c.fetcher.Fetch(ctx, c.path)
		if err == nil {
			if cerr := c.cache.SaveResponse(ctx, c.path, raw); cerr != nil {
				c.log.WithError(cerr).Warn("cache catalog failed")
			}
		} else {
			c.log.WithFields(logrus.Fields{
				"path":  c.path,
				"kind":  fmt.Sprint(linetv.KindOf(err)),
				"error": err,
			}).Warn("catalog refresh failed")
		}

		c.loop.Post(func() {
			if err != nil {
				c.engine.Reload(true)
			} else {
				c.engine.SetEntities(dramas)
			}
			c.status.Finish(len(c.engine.Entities()), err)
			if done != nil {
				done(err == nil)
			}
		})
	}()
}

// Search applies text as the list filter and persists it as the last
// keyword. It does not wait for the write; see FlushKeyword.
func (c *Controller) Search(ctx context.Context, text string) {
	c.loop.Post(func() { c.engine.SetFilter(text) })
	posted := c.writer.Post(func() {
		if err := c.cache.SaveLastKeyword(ctx, text); err != nil {
			c.log.WithError(err).Warn("persist keyword failed")
		}
	})
	if !posted {
		c.log.WithField("keyword", text).Debug("keyword not persisted after close")
	}
}

// FlushKeyword waits until every keyword passed to Search so far has been
// written.
func (c *Controller) FlushKeyword(ctx context.Context) error {
	return c.writer.Sync(ctx, func() {})
}

// Snapshot returns the last snapshot handed to the renderer. It must not be
// called from the loop.
func (c *Controller) Snapshot(ctx context.Context) (listsync.Snapshot, error) {
	var snap listsync.Snapshot
	err := c.loop.Sync(ctx, func() { snap = c.engine.Last() })
	return snap, err
}

// OpenDetail renders drama into renderer and keeps its offline banner in
// step with connectivity until the returned Detail is closed.
func (c *Controller) OpenDetail(drama linetv.Drama, renderer listsync.Renderer) *Detail {
	d := &Detail{
		engine: listsync.NewEngine(listsync.DetailComposer{Drama: drama}, renderer, c.log.WithField("drama_id", drama.ID)),
	}
	d.sub = c.monitor.Subscribe(func(connected bool) { d.engine.SetConnected(connected) })
	c.loop.Post(func() {
		d.engine.WithSuspended(func() {
			d.engine.SetConnected(c.engine.Connected())
		})
		d.engine.Reload(true)
	})
	return d
}

// Close stops following connectivity and waits for pending keyword writes.
func (c *Controller) Close() {
	c.loop.Post(func() {
		if c.sub != nil {
			c.sub.Cancel()
		}
	})
	c.writer.Close()
	<-c.writerDone
}

// Detail is an open detail screen.
type Detail struct {
	engine *listsync.Engine
	sub    *connectivity.Subscription
}

// Close detaches the screen from connectivity updates.
func (d *Detail) Close() {
	d.sub.Cancel()
}
