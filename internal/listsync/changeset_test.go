package listsync

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reel/internal/diff"
)

func summaries(ids ...int64) []Item {
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = SummaryItem{Drama: drama(id, "d")}
	}
	return out
}

func TestDiff_IdenticalSnapshotsAreEmpty(t *testing.T) {
	snap := Snapshot{Sections: []Section{
		offlineSection(),
		{Kind: SectionContent, Items: summaries(1, 2)},
	}}
	cs := Diff(snap, snap)
	assert.True(t, cs.IsEmpty())
	assert.Equal(t, "(no changes)", cs.String())
}

func TestDiff_ConnectivityFlipOnlyTouchesOfflineSection(t *testing.T) {
	online := Snapshot{Sections: []Section{{Kind: SectionContent, Items: summaries(1, 2, 3)}}}
	offline := Snapshot{Sections: []Section{offlineSection(), {Kind: SectionContent, Items: summaries(1, 2, 3)}}}

	down := Diff(online, offline)
	assert.Equal(t, []SectionChange{{Op: diff.Insert, From: -1, To: 0, Section: SectionOffline}}, down.Sections)
	assert.Empty(t, down.Items)

	up := Diff(offline, online)
	assert.Equal(t, []SectionChange{{Op: diff.Remove, From: 0, To: -1, Section: SectionOffline}}, up.Sections)
	assert.Empty(t, up.Items)
}

func TestDiff_CrossSectionMove(t *testing.T) {
	prev := Snapshot{Sections: []Section{
		{Kind: SectionContent, Items: summaries(1, 2)},
		{Kind: SectionInfo, Items: summaries(3)},
	}}
	next := Snapshot{Sections: []Section{
		{Kind: SectionContent, Items: summaries(1)},
		{Kind: SectionInfo, Items: summaries(3, 2)},
	}}

	cs := Diff(prev, next)
	require.Len(t, cs.Items, 1)
	assert.Equal(t, "move summary:2 content[1] -> info[1]", cs.Items[0].String())

	got, err := Apply(prev, next, cs)
	require.NoError(t, err)
	assert.True(t, got.Equal(next))
}

func TestApply_RandomSnapshots(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	random := func() Snapshot {
		var s Snapshot
		if rng.Intn(2) == 0 {
			s.Sections = append(s.Sections, offlineSection())
		}
		perm := rng.Perm(8)
		n := rng.Intn(9)
		items := make([]Item, 0, n)
		for _, id := range perm[:n] {
			d := drama(int64(id+1), "d")
			d.Rating = float64(rng.Intn(2))
			items = append(items, SummaryItem{Drama: d})
		}
		s.Sections = append(s.Sections, Section{Kind: SectionContent, Items: items})
		return s
	}

	for i := 0; i < 300; i++ {
		prev, next := random(), random()
		cs := Diff(prev, next)
		got, err := Apply(prev, next, cs)
		require.NoError(t, err, "prev\n%s\nnext\n%s\nchanges\n%s", prev, next, cs)
		require.True(t, got.Equal(next), "prev\n%s\nnext\n%s\nchanges\n%s", prev, next, cs)
	}
}

func TestApply_RejectsStaleChangeset(t *testing.T) {
	prev := Snapshot{Sections: []Section{{Kind: SectionContent, Items: summaries(1)}}}
	next := Snapshot{Sections: []Section{{Kind: SectionContent, Items: summaries(1, 2)}}}

	_, err := Apply(prev, next, Changeset{})
	assert.Error(t, err)
}

func TestSnapshotHelpers(t *testing.T) {
	snap := Snapshot{Sections: []Section{
		offlineSection(),
		{Kind: SectionContent, Items: summaries(4, 5)},
	}}

	assert.Equal(t, 3, snap.Len())
	assert.False(t, snap.ContentEmpty())
	assert.Len(t, snap.Items(), 3)

	item, pos, ok := snap.Find(ItemKey{Kind: KindSummary, ID: 5})
	require.True(t, ok)
	assert.Equal(t, int64(5), item.(SummaryItem).Drama.ID)
	assert.Equal(t, Position{Section: 1, Index: 1, Kind: SectionContent}, pos)

	_, _, ok = snap.Find(ItemKey{Kind: KindDetail, ID: 5})
	assert.False(t, ok)

	onlyOffline := Snapshot{Sections: []Section{offlineSection(), {Kind: SectionContent}}}
	assert.True(t, onlyOffline.ContentEmpty())
	assert.Equal(t, "offline: offline\ncontent: -", onlyOffline.String())
}

func TestSnapshotEqualDetectsValueChange(t *testing.T) {
	a := Snapshot{Sections: []Section{{Kind: SectionContent, Items: []Item{SummaryItem{Drama: drama(1, "a")}}}}}
	b := Snapshot{Sections: []Section{{Kind: SectionContent, Items: []Item{SummaryItem{Drama: drama(1, "b")}}}}}
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))

	cs := Diff(a, b)
	require.Len(t, cs.Items, 1)
	assert.Equal(t, "update summary:1 at content[0]", cs.Items[0].String())
}
