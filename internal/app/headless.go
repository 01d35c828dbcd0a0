package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/reel/internal/catalog"
	"github.com/five82/reel/internal/connectivity"
	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/listsync"
	"github.com/five82/reel/internal/state"
)

// FetchOptions tune a headless sync.
type FetchOptions struct {
	// Search replaces the persisted keyword when SetSearch is true.
	Search    string
	SetSearch bool
}

// Report is the outcome of a headless sync.
type Report struct {
	Keyword   string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Connected bool   `json:"connected" yaml:"connected"`
	Origin    string `json:"origin" yaml:"origin"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Total     int    `json:"total" yaml:"total"`
	Dramas    []Row  `json:"dramas" yaml:"dramas"`
}

// Row is one drama as printed by the fetch command.
type Row struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Views    int64   `json:"views" yaml:"views"`
	Rating   float64 `json:"rating" yaml:"rating"`
	Released string  `json:"released" yaml:"released"`
	Thumb    string  `json:"thumb" yaml:"thumb"`
}

// Failed reports whether the refresh behind the report failed.
func (r Report) Failed() bool {
	return r.Error != ""
}

type discardRenderer struct{}

func (discardRenderer) Apply(listsync.Snapshot, listsync.Changeset) {}
func (discardRenderer) SetEmpty(bool)                               {}

// Fetch runs one sync without a terminal: it seeds from the offline cache,
// refreshes once and reports what the list would show. A failed refresh is
// reported, not returned; the error return is for setup failures.
func Fetch(ctx context.Context, opts Options, fopts FetchOptions) (Report, error) {
	svc, err := setup(ctx, opts, false)
	if err != nil {
		return Report{}, err
	}
	defer svc.Close()
	log := svc.log.WithField("component", "headless")

	loop, stopLoop := startLoop(ctx)
	defer stopLoop()

	source := connectivity.NewManual(true)
	monitor := connectivity.NewMonitor(loop, source, svc.log)
	if err := monitor.Start(ctx); err != nil {
		return Report{}, fmt.Errorf("start connectivity monitor: %w", err)
	}
	defer monitor.Stop()

	status := &state.Store{}
	ctrl, err := catalog.New(catalog.Options{
		Loop:    loop,
		Monitor: monitor,
		Fetcher: svc.client,
		Cache:   svc.cache,
		Status:  status,
		Path:    svc.cfg.DramasPath,
		Log:     svc.log,
	}, discardRenderer{})
	if err != nil {
		return Report{}, fmt.Errorf("init catalog: %w", err)
	}
	if err := ctrl.Start(ctx); err != nil {
		return Report{}, fmt.Errorf("start catalog: %w", err)
	}
	defer ctrl.Close()

	if fopts.SetSearch {
		ctrl.Search(ctx, fopts.Search)
		if err := ctrl.FlushKeyword(ctx); err != nil {
			return Report{}, fmt.Errorf("persist keyword: %w", err)
		}
	}

	done := make(chan bool, 1)
	ctrl.Refresh(ctx, func(ok bool) { done <- ok })
	var ok bool
	select {
	case ok = <-done:
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}

	fetchStatus := status.Snapshot()
	if !ok && errors.Is(fetchStatus.LastError, linetv.ErrConnection) {
		if err := markOffline(ctx, monitor, source); err != nil {
			return Report{}, err
		}
	}

	snap, err := ctrl.Snapshot(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("read list: %w", err)
	}
	keyword, _, err := svc.cache.LoadLastKeyword(ctx)
	if err != nil {
		log.WithError(err).Warn("read keyword")
	}

	report := newReport(snap, fetchStatus)
	report.Keyword = keyword
	log.WithField("dramas", len(report.Dramas)).Debug("headless sync finished")
	return report, nil
}

// markOffline flips the pinned source to disconnected and waits until the
// change has been delivered on the loop.
func markOffline(ctx context.Context, monitor *connectivity.Monitor, source *connectivity.Manual) error {
	seen := make(chan struct{})
	monitor.SubscribeWhile(func(connected bool) bool {
		if connected {
			return true
		}
		close(seen)
		return false
	})
	source.Set(false)
	select {
	case <-seen:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newReport(snap listsync.Snapshot, st state.Snapshot) Report {
	_, offline := snap.Section(listsync.SectionOffline)
	report := Report{
		Connected: !offline,
		Origin:    string(st.Origin),
		Total:     st.Dramas,
		Dramas:    []Row{},
	}
	if report.Origin == "" {
		report.Origin = "none"
	}
	if st.LastError != nil {
		report.Error = st.LastError.Error()
		if kind := linetv.KindOf(st.LastError); kind != nil {
			report.ErrorKind = kind.Error()
		}
	}
	if sec, ok := snap.Section(listsync.SectionContent); ok {
		for _, it := range sec.Items {
			d, ok := listsync.Selection(it)
			if !ok {
				continue
			}
			report.Dramas = append(report.Dramas, Row{
				ID:       d.ID,
				Name:     d.Name,
				Views:    d.TotalViews,
				Rating:   d.Rating,
				Released: d.DateText(),
				Thumb:    d.Thumb,
			})
		}
	}
	return report
}

// CacheReport describes what the offline cache holds.
type CacheReport struct {
	Backend     string `json:"backend" yaml:"backend"`
	Keyword     string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	HasKeyword  bool   `json:"has_keyword" yaml:"has_keyword"`
	Path        string `json:"path" yaml:"path"`
	Cached      bool   `json:"cached" yaml:"cached"`
	Bytes       int    `json:"bytes" yaml:"bytes"`
	Dramas      int    `json:"dramas" yaml:"dramas"`
	DecodeError string `json:"decode_error,omitempty" yaml:"decode_error,omitempty"`
}

// InspectCache reads the offline cache without touching the network.
func InspectCache(ctx context.Context, opts Options) (CacheReport, error) {
	svc, err := setup(ctx, opts, false)
	if err != nil {
		return CacheReport{}, err
	}
	defer svc.Close()

	report := CacheReport{Backend: svc.cfg.Cache.Backend, Path: svc.cfg.DramasPath}

	report.Keyword, report.HasKeyword, err = svc.cache.LoadLastKeyword(ctx)
	if err != nil {
		return CacheReport{}, err
	}
	raw, ok, err := svc.cache.LoadResponse(ctx, svc.cfg.DramasPath)
	if err != nil {
		return CacheReport{}, err
	}
	if !ok {
		return report, nil
	}
	report.Cached = true
	report.Bytes = len(raw)
	dramas, err := linetv.DecodeDramas(raw)
	if err != nil {
		report.DecodeError = err.Error()
		return report, nil
	}
	report.Dramas = len(dramas)
	return report, nil
}
