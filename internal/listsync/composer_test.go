package listsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/reel/internal/linetv"
)

func names(dramas []linetv.Drama) []string {
	out := make([]string, 0, len(dramas))
	for _, d := range dramas {
		out = append(out, d.Name)
	}
	return out
}

func TestFilterDramas(t *testing.T) {
	all := []linetv.Drama{
		drama(1, "Love Alarm"),
		drama(2, "致我們單純的小美好"),
		drama(3, "École du Soir"),
		drama(4, "ALARM clock"),
	}

	assert.Equal(t, names(all), names(FilterDramas(all, "")))
	assert.Equal(t, []string{"Love Alarm", "ALARM clock"}, names(FilterDramas(all, "aLaRm")))
	assert.Equal(t, []string{"致我們單純的小美好"}, names(FilterDramas(all, "小美好")))
	assert.Equal(t, []string{"École du Soir"}, names(FilterDramas(all, "éCOLE")))
	assert.Empty(t, FilterDramas(all, "zzz"))
	assert.Empty(t, FilterDramas(nil, "a"))

	// whitespace is matched literally
	assert.Equal(t, []string{"Love Alarm"}, names(FilterDramas(all, "e a")))
}

func TestListComposer(t *testing.T) {
	state := State{Entities: []linetv.Drama{drama(2, "b"), drama(1, "a")}, Connected: true}

	snap := ListComposer{}.Compose(state)
	assert.Equal(t, "content: summary:2 summary:1", snap.String())

	state.Connected = false
	state.Filter = "nomatch"
	snap = ListComposer{}.Compose(state)
	assert.Equal(t, "offline: offline\ncontent: -", snap.String())
}

func TestGuard(t *testing.T) {
	var g Guard
	assert.False(t, g.Active())
	g.Run(func() {
		assert.True(t, g.Active())
		g.Run(func() { assert.True(t, g.Active()) })
		assert.True(t, g.Active())
	})
	assert.False(t, g.Active())
}

func TestSelection(t *testing.T) {
	d := drama(3, "c")

	got, ok := Selection(SummaryItem{Drama: d})
	assert.True(t, ok)
	assert.Equal(t, d.ID, got.ID)

	_, ok = Selection(OfflineItem{})
	assert.False(t, ok)
	_, ok = Selection(DetailItem{Drama: d})
	assert.False(t, ok)
}

func TestCells(t *testing.T) {
	cells := Cells[string]{
		Offline: func(OfflineItem) string { return "offline" },
		Summary: func(it SummaryItem) string { return "row " + it.Drama.Name },
	}

	got, err := cells.Render(OfflineItem{})
	assert.NoError(t, err)
	assert.Equal(t, "offline", got)

	got, err = cells.Render(SummaryItem{Drama: drama(1, "Kingdom")})
	assert.NoError(t, err)
	assert.Equal(t, "row Kingdom", got)

	_, err = cells.Render(DetailItem{Drama: drama(1, "Kingdom")})
	assert.EqualError(t, err, "no cell registered for detail")

	_, err = cells.Render(nil)
	assert.Error(t, err)
}

func TestKeysAndKinds(t *testing.T) {
	assert.Equal(t, "offline", OfflineItem{}.Key().String())
	assert.Equal(t, "summary:9", SummaryItem{Drama: drama(9, "x")}.Key().String())
	assert.Equal(t, "detail:9", DetailItem{Drama: drama(9, "x")}.Key().String())
	assert.NotEqual(t, SummaryItem{Drama: drama(9, "x")}.Key(), DetailItem{Drama: drama(9, "x")}.Key())
	assert.Equal(t, "SectionKind(0)", SectionKind(0).String())
	assert.Equal(t, "ItemKind(0)", ItemKind(0).String())
}
