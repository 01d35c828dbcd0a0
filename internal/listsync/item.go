package listsync

import (
	"fmt"

	"github.com/five82/reel/internal/linetv"
)

// ItemKind tags the variant of an Item.
type ItemKind int

const (
	KindOffline ItemKind = iota + 1
	KindSummary
	KindDetail
)

func (k ItemKind) String() string {
	switch k {
	case KindOffline:
		return "offline"
	case KindSummary:
		return "summary"
	case KindDetail:
		return "detail"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// ItemKey is the identity of an Item across snapshots.
type ItemKey struct {
	Kind ItemKind
	ID   int64
}

func (k ItemKey) String() string {
	if k.Kind == KindOffline {
		return k.Kind.String()
	}
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// Item is one renderable row. The set of variants is closed: OfflineItem,
// SummaryItem and DetailItem.
type Item interface {
	Key() ItemKey
	item()
}

// OfflineItem is the marker shown while the network is unreachable.
type OfflineItem struct{}

// SummaryItem is a drama row in the catalog list.
type SummaryItem struct {
	Drama linetv.Drama
}

// DetailItem is the single row of the drama detail screen.
type DetailItem struct {
	Drama linetv.Drama
}

func (OfflineItem) Key() ItemKey { return ItemKey{Kind: KindOffline} }
func (i SummaryItem) Key() ItemKey { return ItemKey{Kind: KindSummary, ID: i.Drama.ID} }
func (i DetailItem) Key() ItemKey { return ItemKey{Kind: KindDetail, ID: i.Drama.ID} }

func (OfflineItem) item() {}
func (SummaryItem) item() {}
func (DetailItem) item() {}

// Selection returns the drama a selected item navigates to. Only catalog rows
// are selectable.
func Selection(item Item) (linetv.Drama, bool) {
	if s, ok := item.(SummaryItem); ok {
		return s.Drama, true
	}
	return linetv.Drama{}, false
}

// sameItem reports whether a and b render identically.
func sameItem(a, b Item) bool {
	if a.Key() != b.Key() {
		return false
	}
	switch a := a.(type) {
	case OfflineItem:
		return true
	case SummaryItem:
		return sameDrama(a.Drama, b.(SummaryItem).Drama)
	case DetailItem:
		return sameDrama(a.Drama, b.(DetailItem).Drama)
	default:
		return false
	}
}

func sameDrama(a, b linetv.Drama) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.TotalViews == b.TotalViews &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.Thumb == b.Thumb &&
		a.Rating == b.Rating
}
