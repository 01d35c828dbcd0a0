package connectivity

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/five82/reel/internal/logging"
)

const (
	defaultProbeInterval = 5 * time.Second
	defaultProbeTimeout  = 3 * time.Second
	wakeBurst            = 1
	wakeEvery            = time.Second
)

// DefaultWatchPaths are files the host rewrites when its network path changes.
var DefaultWatchPaths = []string{"/etc/resolv.conf"}

// DialFunc opens a connection for a reachability probe.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Prober is a Source that reports reachability of a TCP address. It probes on
// a fixed cadence and additionally wakes up when any of WatchPaths changes.
// Only status changes are emitted after the first observation.
type Prober struct {
	Address    string
	Interval   time.Duration
	Timeout    time.Duration
	WatchPaths []string
	Dial       DialFunc
	Log        logrus.FieldLogger
}

var _ Source = (*Prober)(nil)

// Watch implements Source.
func (p *Prober) Watch(ctx context.Context) (<-chan bool, error) {
	if strings.TrimSpace(p.Address) == "" {
		return nil, errors.New("probe address is empty")
	}
	if _, _, err := net.SplitHostPort(p.Address); err != nil {
		return nil, err
	}

	out := make(chan bool, 1)
	wake := p.watchFiles(ctx)
	go p.run(ctx, out, wake)
	return out, nil
}

func (p *Prober) run(ctx context.Context, out chan<- bool, wake <-chan struct{}) {
	defer close(out)

	interval := p.Interval
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	limiter := rate.NewLimiter(rate.Every(wakeEvery), wakeBurst)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last, seen bool
	check := func() bool {
		up := p.probe(ctx)
		if seen && up == last {
			return true
		}
		seen, last = true, up
		select {
		case out <- up:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !check() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-wake:
			if !limiter.Allow() {
				continue
			}
		}
		if !check() {
			return
		}
	}
}

func (p *Prober) probe(ctx context.Context) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	dial := p.Dial
	if dial == nil {
		dial = (&net.Dialer{}).DialContext
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dial(probeCtx, "tcp", p.Address)
	if err != nil {
		logging.OrDiscard(p.Log).WithFields(logrus.Fields{
			"address": p.Address,
			"error":   err,
		}).Debug("reachability probe failed")
		return false
	}
	_ = conn.Close()
	return true
}

// watchFiles returns a channel that fires when a watched file changes. The
// parent directory is watched so atomic replacements are still seen. It
// returns nil when nothing can be watched.
func (p *Prober) watchFiles(ctx context.Context) <-chan struct{} {
	log := logging.OrDiscard(p.Log)
	if len(p.WatchPaths) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("path watcher unavailable")
		return nil
	}

	names := make(map[string]struct{}, len(p.WatchPaths))
	dirs := make(map[string]struct{}, len(p.WatchPaths))
	for _, path := range p.WatchPaths {
		clean := filepath.Clean(path)
		names[clean] = struct{}{}
		dirs[filepath.Dir(clean)] = struct{}{}
	}
	added := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.WithFields(logrus.Fields{"dir": dir, "error": err}).Debug("skip watch dir")
			continue
		}
		added++
	}
	if added == 0 {
		_ = watcher.Close()
		return nil
	}

	wake := make(chan struct{}, 1)
	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Chmod == fsnotify.Chmod {
					continue
				}
				if _, match := names[filepath.Clean(event.Name)]; !match {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("path watcher error")
			}
		}
	}()
	return wake
}
