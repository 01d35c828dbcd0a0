package listsync

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/reel/internal/diff"
)

// Position addresses an item. Section is the section index in the snapshot
// the position refers to; Kind names that section.
type Position struct {
	Section int
	Index   int
	Kind    SectionKind
}

func (p Position) String() string {
	return fmt.Sprintf("%s[%d]", p.Kind, p.Index)
}

func (p Position) less(o Position) bool {
	if p.Section != o.Section {
		return p.Section < o.Section
	}
	return p.Index < o.Index
}

// SectionChange inserts, removes or moves a whole section. Items of an
// inserted or removed section travel with it.
type SectionChange struct {
	Op      diff.Kind
	From    int // index in the previous snapshot, -1 for inserts
	To      int // index in the next snapshot, -1 for removes
	Section SectionKind
}

func (c SectionChange) String() string {
	switch c.Op {
	case diff.Insert:
		return fmt.Sprintf("insert section %s at %d", c.Section, c.To)
	case diff.Remove:
		return fmt.Sprintf("remove section %s at %d", c.Section, c.From)
	default:
		return fmt.Sprintf("%s section %s %d -> %d", c.Op, c.Section, c.From, c.To)
	}
}

// ItemChange edits one item inside sections present in both snapshots.
// From refers to the previous snapshot and To to the next one.
type ItemChange struct {
	Op   diff.Kind
	Key  ItemKey
	From Position
	To   Position
}

func (c ItemChange) String() string {
	switch c.Op {
	case diff.Insert, diff.Update:
		return fmt.Sprintf("%s %s at %s", c.Op, c.Key, c.To)
	case diff.Remove:
		return fmt.Sprintf("remove %s at %s", c.Key, c.From)
	default:
		return fmt.Sprintf("move %s %s -> %s", c.Key, c.From, c.To)
	}
}

// Changeset is the ordered edit list between two snapshots. Removes refer to
// the previous snapshot, inserts and move destinations to the next one, as a
// single batch.
type Changeset struct {
	Sections []SectionChange
	Items    []ItemChange
}

// IsEmpty reports whether nothing changed.
func (c Changeset) IsEmpty() bool {
	return len(c.Sections) == 0 && len(c.Items) == 0
}

func (c Changeset) String() string {
	if c.IsEmpty() {
		return "(no changes)"
	}
	lines := make([]string, 0, len(c.Sections)+len(c.Items))
	for _, s := range c.Sections {
		lines = append(lines, s.String())
	}
	for _, it := range c.Items {
		lines = append(lines, it.String())
	}
	return strings.Join(lines, "\n")
}

func sectionKind(s Section) SectionKind { return s.Kind }

func itemKey(it Item) ItemKey { return it.Key() }

// Diff computes the changeset turning prev into next.
func Diff(prev, next Snapshot) Changeset {
	var cs Changeset

	for _, op := range diff.Compute(prev.Sections, next.Sections, sectionKind, nil) {
		var kind SectionKind
		if op.From >= 0 {
			kind = prev.Sections[op.From].Kind
		} else {
			kind = next.Sections[op.To].Kind
		}
		cs.Sections = append(cs.Sections, SectionChange{Op: op.Kind, From: op.From, To: op.To, Section: kind})
	}

	prevIndex := make(map[SectionKind]int, len(prev.Sections))
	for i, sec := range prev.Sections {
		prevIndex[sec.Kind] = i
	}

	var removes, placed, updates []ItemChange
	for nj, nsec := range next.Sections {
		pi, ok := prevIndex[nsec.Kind]
		if !ok {
			continue
		}
		psec := prev.Sections[pi]
		for _, op := range diff.Compute(psec.Items, nsec.Items, itemKey, sameItem) {
			change := ItemChange{
				Op:   op.Kind,
				From: Position{Section: -1, Index: -1},
				To:   Position{Section: -1, Index: -1},
			}
			if op.From >= 0 {
				change.From = Position{Section: pi, Index: op.From, Kind: psec.Kind}
				change.Key = psec.Items[op.From].Key()
			}
			if op.To >= 0 {
				change.To = Position{Section: nj, Index: op.To, Kind: nsec.Kind}
				change.Key = nsec.Items[op.To].Key()
			}
			switch op.Kind {
			case diff.Remove:
				removes = append(removes, change)
			case diff.Update:
				updates = append(updates, change)
			default:
				placed = append(placed, change)
			}
		}
	}

	removes, placed = pairCrossSectionMoves(removes, placed)

	sort.SliceStable(removes, func(i, j int) bool { return removes[j].From.less(removes[i].From) })
	sort.SliceStable(placed, func(i, j int) bool { return placed[i].To.less(placed[j].To) })
	sort.SliceStable(updates, func(i, j int) bool { return updates[i].To.less(updates[j].To) })

	cs.Items = make([]ItemChange, 0, len(removes)+len(placed)+len(updates))
	cs.Items = append(cs.Items, removes...)
	cs.Items = append(cs.Items, placed...)
	cs.Items = append(cs.Items, updates...)
	if len(cs.Items) == 0 {
		cs.Items = nil
	}
	return cs
}

// pairCrossSectionMoves turns a remove in one section and an insert of the
// same key in another into a single move.
func pairCrossSectionMoves(removes, placed []ItemChange) ([]ItemChange, []ItemChange) {
	removed := make(map[ItemKey]int, len(removes))
	for i, r := range removes {
		removed[r.Key] = i
	}
	dropped := make(map[int]bool)
	for i, p := range placed {
		if p.Op != diff.Insert {
			continue
		}
		ri, ok := removed[p.Key]
		if !ok {
			continue
		}
		placed[i].Op = diff.Move
		placed[i].From = removes[ri].From
		dropped[ri] = true
	}
	if len(dropped) == 0 {
		return removes, placed
	}
	kept := removes[:0]
	for i, r := range removes {
		if !dropped[i] {
			kept = append(kept, r)
		}
	}
	return kept, placed
}

// Apply replays cs against prev, taking inserted and updated values from
// next. The result equals next when cs came from Diff(prev, next).
func Apply(prev, next Snapshot, cs Changeset) (Snapshot, error) {
	prevIdx := make([]int, len(prev.Sections))
	for i := range prevIdx {
		prevIdx[i] = i
	}
	slots := make([]int, len(next.Sections))
	for i := range slots {
		slots[i] = -1
	}
	sectionOps := make([]diff.Op, 0, len(cs.Sections))
	for _, c := range cs.Sections {
		sectionOps = append(sectionOps, diff.Op{Kind: c.Op, From: c.From, To: c.To})
	}
	origin, err := diff.Apply(prevIdx, slots, sectionOps)
	if err != nil {
		return Snapshot{}, fmt.Errorf("apply section changes: %w", err)
	}

	out := Snapshot{Sections: make([]Section, len(next.Sections))}
	for j, nsec := range next.Sections {
		pi := origin[j]
		if pi < 0 {
			out.Sections[j] = Section{Kind: nsec.Kind, Items: append([]Item(nil), nsec.Items...)}
			continue
		}
		psec := prev.Sections[pi]
		if psec.Kind != nsec.Kind {
			return Snapshot{}, fmt.Errorf("section %d: have %s, want %s", j, psec.Kind, nsec.Kind)
		}
		items, err := diff.Apply(psec.Items, nsec.Items, itemOps(cs.Items, pi, j))
		if err != nil {
			return Snapshot{}, fmt.Errorf("apply %s changes: %w", nsec.Kind, err)
		}
		out.Sections[j] = Section{Kind: nsec.Kind, Items: items}
	}
	return out, nil
}

// itemOps projects item changes onto the section at prev index pi / next
// index nj. A move across sections reads as a remove on one side and an
// insert on the other.
func itemOps(changes []ItemChange, pi, nj int) []diff.Op {
	var ops []diff.Op
	for _, c := range changes {
		from := c.From.Section == pi && c.From.Index >= 0
		to := c.To.Section == nj && c.To.Index >= 0
		switch c.Op {
		case diff.Remove:
			if from {
				ops = append(ops, diff.Op{Kind: diff.Remove, From: c.From.Index, To: -1})
			}
		case diff.Insert:
			if to {
				ops = append(ops, diff.Op{Kind: diff.Insert, From: -1, To: c.To.Index})
			}
		case diff.Move:
			switch {
			case from && to:
				ops = append(ops, diff.Op{Kind: diff.Move, From: c.From.Index, To: c.To.Index})
			case from:
				ops = append(ops, diff.Op{Kind: diff.Remove, From: c.From.Index, To: -1})
			case to:
				ops = append(ops, diff.Op{Kind: diff.Insert, From: -1, To: c.To.Index})
			}
		case diff.Update:
			if to {
				ops = append(ops, diff.Op{Kind: diff.Update, From: c.From.Index, To: c.To.Index})
			}
		}
	}
	return ops
}
