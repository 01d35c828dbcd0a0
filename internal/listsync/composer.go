package listsync

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/five82/reel/internal/linetv"
)

// State is the input to a Composer.
type State struct {
	Entities  []linetv.Drama
	Filter    string
	Connected bool
}

// Composer builds a snapshot from state. It must be a pure function.
type Composer interface {
	Compose(State) Snapshot
}

// ListComposer lays out the catalog screen: an offline banner when
// disconnected, then the dramas whose names match the filter.
type ListComposer struct{}

func (ListComposer) Compose(s State) Snapshot {
	var snap Snapshot
	if !s.Connected {
		snap.Sections = append(snap.Sections, offlineSection())
	}
	matched := FilterDramas(s.Entities, s.Filter)
	items := make([]Item, 0, len(matched))
	for _, d := range matched {
		items = append(items, SummaryItem{Drama: d})
	}
	snap.Sections = append(snap.Sections, Section{Kind: SectionContent, Items: items})
	return snap
}

// DetailComposer lays out the detail screen for one drama. Entities and
// filter are ignored.
type DetailComposer struct {
	Drama linetv.Drama
}

func (c DetailComposer) Compose(s State) Snapshot {
	var snap Snapshot
	if !s.Connected {
		snap.Sections = append(snap.Sections, offlineSection())
	}
	snap.Sections = append(snap.Sections, Section{
		Kind:  SectionInfo,
		Items: []Item{DetailItem{Drama: c.Drama}},
	})
	return snap
}

func offlineSection() Section {
	return Section{Kind: SectionOffline, Items: []Item{OfflineItem{}}}
}

// FilterDramas keeps dramas whose name contains text, ignoring case. An
// empty text keeps everything. Order is preserved.
func FilterDramas(dramas []linetv.Drama, text string) []linetv.Drama {
	if text == "" {
		return append([]linetv.Drama(nil), dramas...)
	}
	fold := cases.Fold()
	needle := fold.String(text)
	out := make([]linetv.Drama, 0, len(dramas))
	for _, d := range dramas {
		if strings.Contains(fold.String(d.Name), needle) {
			out = append(out, d)
		}
	}
	return out
}
