package listsync

import (
	"math/rand"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/reel/internal/linetv"
)

func TestEngine_Transcript(t *testing.T) {
	rec := newRecorder(t)
	e := NewEngine(ListComposer{}, rec, nil)

	rec.step("seed while suspended")
	e.WithSuspended(func() {
		e.SetFilter("alarm")
		e.SetEntities([]linetv.Drama{
			drama(1, "Love Alarm"),
			drama(2, "Crash Landing on You"),
			drama(3, "ALARM clock"),
		})
	})

	rec.step("reload")
	e.Reload(true)

	rec.step("disconnect")
	e.SetConnected(false)

	rec.step("clear filter")
	e.SetFilter("")

	rec.step("reconnect")
	e.SetConnected(true)

	rec.step("refetch")
	e.SetEntities([]linetv.Drama{
		drama(3, "ALARM clock"),
		drama(1, "Love Alarm 2"),
		drama(4, "Alarmed"),
	})

	rec.step("no match")
	e.SetFilter("zzz")

	rec.step("reload without change")
	e.Reload(false)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "engine_transcript", []byte(rec.out.String()))
}

func TestEngine_SuspendedEmitsNothingAndRestores(t *testing.T) {
	rec := newRecorder(t)
	e := NewEngine(ListComposer{}, rec, nil)

	assert.False(t, e.Suspended())
	e.WithSuspended(func() {
		e.SetEntities([]linetv.Drama{drama(1, "a")})
		e.WithSuspended(func() {
			e.SetConnected(false)
		})
		assert.True(t, e.Suspended(), "inner run restores the outer state")
		e.SetFilter("a")
	})
	assert.False(t, e.Suspended())
	assert.Zero(t, rec.applies)
	assert.Empty(t, rec.empties)

	// state changed even though nothing was emitted
	assert.Equal(t, "a", e.Filter())
	assert.False(t, e.Connected())
	assert.Len(t, e.Entities(), 1)
	assert.Empty(t, e.Last().Sections)
}

func TestEngine_SuspendRestoresAfterPanic(t *testing.T) {
	e := NewEngine(ListComposer{}, nil, nil)
	assert.Panics(t, func() {
		e.WithSuspended(func() { panic("boom") })
	})
	assert.False(t, e.Suspended())
}

func TestEngine_ConnectivityNeverTouchesEmptyIndicator(t *testing.T) {
	rec := newRecorder(t)
	e := NewEngine(ListComposer{}, rec, nil)

	for i := 0; i < 6; i++ {
		e.SetConnected(i%2 == 1)
	}
	assert.Equal(t, 6, rec.applies)
	assert.Empty(t, rec.empties)

	e.SetFilter("x")
	assert.Equal(t, []bool{true}, rec.empties)
}

func TestEngine_ApplyCalledWithoutChanges(t *testing.T) {
	rec := newRecorder(t)
	e := NewEngine(ListComposer{}, rec, nil)

	e.SetEntities([]linetv.Drama{drama(1, "a")})
	e.SetEntities([]linetv.Drama{drama(1, "a")})
	assert.Equal(t, 2, rec.applies)
	assert.Equal(t, []bool{false, false}, rec.empties)
}

func TestEngine_DropsDuplicateIDs(t *testing.T) {
	e := NewEngine(ListComposer{}, nil, nil)
	e.SetEntities([]linetv.Drama{drama(1, "first"), drama(2, "b"), drama(1, "second")})

	got := e.Entities()
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	content, _ := e.Last().Section(SectionContent)
	assert.Equal(t, []string{"summary:1", "summary:2"}, keys(content))
}

func TestEngine_SnapshotIsPure(t *testing.T) {
	rec := newRecorder(t)
	e := NewEngine(ListComposer{}, rec, nil)
	e.WithSuspended(func() {
		e.SetEntities([]linetv.Drama{drama(1, "a"), drama(2, "b")})
		e.SetConnected(false)
	})

	first := e.Snapshot()
	second := e.Snapshot()
	assert.True(t, first.Equal(second))
	assert.Zero(t, rec.applies)
	assert.Equal(t, "offline: offline\ncontent: summary:1 summary:2", first.String())
}

func TestEngine_RandomInputsReplayExactly(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"Love Alarm", "alarm", "Crash", "crash landing", "Kingdom", "king", "Itaewon"}
	filters := []string{"", "", "a", "AL", "king", "crash", "zzz", "n"}

	rec := newRecorder(t)
	e := NewEngine(ListComposer{}, rec, nil)
	for i := 0; i < 300; i++ {
		switch rng.Intn(3) {
		case 0:
			perm := rng.Perm(len(names))
			n := rng.Intn(len(names) + 1)
			dramas := make([]linetv.Drama, 0, n)
			for _, idx := range perm[:n] {
				d := drama(int64(idx+1), names[idx])
				d.Rating = float64(rng.Intn(3))
				dramas = append(dramas, d)
			}
			e.SetEntities(dramas)
		case 1:
			e.SetFilter(filters[rng.Intn(len(filters))])
		case 2:
			e.SetConnected(rng.Intn(2) == 0)
		}

		last := e.Last()
		_, hasOffline := last.Section(SectionOffline)
		assert.Equal(t, !e.Connected(), hasOffline)
		content, ok := last.Section(SectionContent)
		require.True(t, ok)
		assert.Len(t, content.Items, len(FilterDramas(e.Entities(), e.Filter())))

		seen := map[ItemKey]bool{}
		for _, it := range last.Items() {
			require.False(t, seen[it.Key()], "duplicate key %s", it.Key())
			seen[it.Key()] = true
		}
	}
	assert.Equal(t, 300, rec.applies)
}

func TestEngine_FailedFetchKeepsContent(t *testing.T) {
	rec := newRecorder(t)
	e := NewEngine(ListComposer{}, rec, nil)
	e.SetEntities([]linetv.Drama{drama(1, "a"), drama(2, "b")})
	before, _ := e.Last().Section(SectionContent)

	// a failed fetch only reconciles against the existing entities
	e.Reload(true)
	after, _ := e.Last().Section(SectionContent)
	assert.Equal(t, keys(before), keys(after))
	assert.Equal(t, []bool{false, false}, rec.empties)
}

func TestDetailEngine(t *testing.T) {
	rec := newRecorder(t)
	d := drama(7, "Kingdom")
	e := NewEngine(DetailComposer{Drama: d}, rec, nil)

	e.Reload(false)
	assert.Equal(t, "info: detail:7", e.Last().String())

	e.SetConnected(false)
	assert.Equal(t, "offline: offline\ninfo: detail:7", e.Last().String())
	assert.Empty(t, rec.empties)

	// entities and filter do not affect the detail layout
	e.WithSuspended(func() { e.SetEntities(nil) })
	e.SetFilter("nothing")
	assert.Equal(t, "offline: offline\ninfo: detail:7", e.Last().String())
}
