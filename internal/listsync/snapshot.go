package listsync

import (
	"fmt"
	"strings"
)

// SectionKind names a group of items.
type SectionKind int

const (
	SectionOffline SectionKind = iota + 1
	SectionContent
	SectionInfo
)

func (k SectionKind) String() string {
	switch k {
	case SectionOffline:
		return "offline"
	case SectionContent:
		return "content"
	case SectionInfo:
		return "info"
	default:
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
}

// Section is an ordered group of items.
type Section struct {
	Kind  SectionKind
	Items []Item
}

// Snapshot is everything to render at one instant. Item keys are unique
// across the whole snapshot.
type Snapshot struct {
	Sections []Section
}

// Section returns the section of the given kind.
func (s Snapshot) Section(kind SectionKind) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Kind == kind {
			return sec, true
		}
	}
	return Section{}, false
}

// Items flattens the snapshot in display order.
func (s Snapshot) Items() []Item {
	var out []Item
	for _, sec := range s.Sections {
		out = append(out, sec.Items...)
	}
	return out
}

// Len counts items across sections.
func (s Snapshot) Len() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Items)
	}
	return n
}

// ContentEmpty reports whether every section other than the offline banner
// is empty.
func (s Snapshot) ContentEmpty() bool {
	for _, sec := range s.Sections {
		if sec.Kind != SectionOffline && len(sec.Items) > 0 {
			return false
		}
	}
	return true
}

// Find locates an item by key.
func (s Snapshot) Find(key ItemKey) (Item, Position, bool) {
	for si, sec := range s.Sections {
		for ii, it := range sec.Items {
			if it.Key() == key {
				return it, Position{Section: si, Index: ii, Kind: sec.Kind}, true
			}
		}
	}
	return nil, Position{Section: -1, Index: -1}, false
}

// Equal reports whether s and other have the same sections holding the same
// items in the same order.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Sections) != len(other.Sections) {
		return false
	}
	for i, sec := range s.Sections {
		o := other.Sections[i]
		if sec.Kind != o.Kind || len(sec.Items) != len(o.Items) {
			return false
		}
		for j := range sec.Items {
			if !sameItem(sec.Items[j], o.Items[j]) {
				return false
			}
		}
	}
	return true
}

// String renders one line per section, e.g. "content: summary:1 summary:2".
func (s Snapshot) String() string {
	lines := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		keys := make([]string, 0, len(sec.Items))
		for _, it := range sec.Items {
			keys = append(keys, it.Key().String())
		}
		if len(keys) == 0 {
			keys = append(keys, "-")
		}
		lines = append(lines, sec.Kind.String()+": "+strings.Join(keys, " "))
	}
	return strings.Join(lines, "\n")
}
