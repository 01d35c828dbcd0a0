package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/catalog"
	"github.com/five82/reel/internal/linetv"
	"github.com/five82/reel/internal/listsync"
	"github.com/five82/reel/internal/prefs"
	"github.com/five82/reel/internal/state"
)

type fakeCatalog struct {
	refreshes []func(ok bool)
	searches  []string
	opened    []linetv.Drama
	renderers []listsync.Renderer
}

func (f *fakeCatalog) Refresh(_ context.Context, done func(ok bool)) {
	f.refreshes = append(f.refreshes, done)
}

func (f *fakeCatalog) Search(_ context.Context, text string) {
	f.searches = append(f.searches, text)
}

func (f *fakeCatalog) OpenDetail(drama linetv.Drama, renderer listsync.Renderer) *catalog.Detail {
	f.opened = append(f.opened, drama)
	f.renderers = append(f.renderers, renderer)
	return &catalog.Detail{}
}

type harness struct {
	t      *testing.T
	model  Model
	fake   *fakeCatalog
	status *state.Store
	prefs  string
	sent   []tea.Msg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		fake:   &fakeCatalog{},
		status: &state.Store{},
		prefs:  filepath.Join(t.TempDir(), "prefs.toml"),
	}
	bridge := NewBridge()
	bridge.Attach(func(msg tea.Msg) { h.sent = append(h.sent, msg) })
	h.model = New(Options{
		Catalog:   h.fake,
		Bridge:    bridge,
		Status:    h.status,
		PrefsPath: h.prefs,
		Prefs:     prefs.Prefs{Theme: "Dracula"},
	})
	h.update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) update(msg tea.Msg) {
	h.t.Helper()
	next, _ := h.model.Update(msg)
	h.model = next.(Model)
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.update(keyMsg(k))
	}
}

// flush feeds messages the bridge captured back into the model.
func (h *harness) flush() {
	h.t.Helper()
	pending := h.sent
	h.sent = nil
	for _, msg := range pending {
		h.update(msg)
	}
}

func (h *harness) showList(dramas ...linetv.Drama) {
	h.t.Helper()
	h.showListOffline(false, dramas...)
}

func (h *harness) showListOffline(offline bool, dramas ...linetv.Drama) {
	h.t.Helper()
	next := listsync.ListComposer{}.Compose(listsync.State{Entities: dramas, Connected: !offline})
	h.update(applyMsg{screen: listScreen, next: next, changes: listsync.Diff(h.model.list.rows, next)})
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func drama(id int64, name string) linetv.Drama {
	return linetv.Drama{
		ID:         id,
		Name:       name,
		TotalViews: 1000 * id,
		CreatedAt:  time.Date(2017, 11, 23, 2, 4, 39, 0, time.UTC),
		Thumb:      "https://example.test/thumb.jpg",
		Rating:     3.5,
	}
}

func TestModel_ApplyReplaysChangesetAndKeepsSelection(t *testing.T) {
	h := newHarness(t)
	h.showList(drama(1, "Alpha"), drama(2, "Beta"))

	if got := len(contentItems(h.model.list.rows)); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	h.press("j")
	if h.model.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", h.model.cursor)
	}

	h.showList(drama(3, "Aardvark"), drama(1, "Alpha"), drama(2, "Beta"))
	if h.model.cursor != 2 {
		t.Fatalf("cursor = %d, want 2 after insert above selection", h.model.cursor)
	}
	if h.model.list.applies != 2 {
		t.Fatalf("applies = %d, want 2", h.model.list.applies)
	}

	h.press("G", "j")
	if h.model.cursor != 2 {
		t.Fatalf("cursor = %d, want clamp at last row", h.model.cursor)
	}
	h.press("g")
	if h.model.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after g", h.model.cursor)
	}
}

func TestModel_RemovingSelectedRowClampsCursor(t *testing.T) {
	h := newHarness(t)
	h.showList(drama(1, "Alpha"), drama(2, "Beta"))
	h.press("j")

	h.showList(drama(1, "Alpha"))
	if h.model.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", h.model.cursor)
	}
	if h.model.selected != (listsync.SummaryItem{Drama: drama(1, "Alpha")}).Key() {
		t.Fatalf("selected = %v, want drama 1", h.model.selected)
	}
}

func TestModel_OfflineBannerRendersAboveRows(t *testing.T) {
	h := newHarness(t)
	h.showListOffline(true, drama(1, "Alpha"))

	view := h.model.View()
	if !strings.Contains(view, "OFFLINE") {
		t.Fatalf("view missing offline banner:\n%s", view)
	}
	if strings.Index(view, "showing the last saved catalog") > strings.Index(view, "Alpha") {
		t.Fatalf("banner should render above the rows:\n%s", view)
	}

	h.showListOffline(false, drama(1, "Alpha"))
	if strings.Contains(h.model.View(), "showing the last saved catalog") {
		t.Fatal("banner still shown after reconnect")
	}
}

func TestModel_EmptyIndicator(t *testing.T) {
	h := newHarness(t)
	h.update(emptyMsg{screen: listScreen, empty: true})
	if !strings.Contains(h.model.View(), "No dramas yet") {
		t.Fatalf("missing empty indicator:\n%s", h.model.View())
	}

	h.press("/", "z", "z", "esc")
	if !strings.Contains(h.model.View(), `No dramas match "zz"`) {
		t.Fatalf("missing filtered empty indicator:\n%s", h.model.View())
	}

	h.update(emptyMsg{screen: listScreen, empty: false})
	if strings.Contains(h.model.View(), "No dramas") {
		t.Fatal("empty indicator still shown")
	}
}

func TestModel_SearchForwardsEveryEdit(t *testing.T) {
	h := newHarness(t)
	h.press("/")
	if !h.model.searching {
		t.Fatal("expected search focus after /")
	}
	h.press("r", "o")
	h.update(tea.KeyMsg{Type: tea.KeyBackspace})
	h.press("enter")

	want := []string{"r", "ro", "r"}
	if strings.Join(h.fake.searches, ",") != strings.Join(want, ",") {
		t.Fatalf("searches = %q, want %q", h.fake.searches, want)
	}
	if h.model.searching {
		t.Fatal("enter should leave search")
	}
	if len(h.fake.refreshes) != 0 {
		t.Fatal("typing r in the search box must not refresh")
	}
}

func TestModel_OpenAndCloseDetail(t *testing.T) {
	h := newHarness(t)
	h.showList(drama(1, "Alpha"), drama(2, "Beta"))
	h.press("j", "enter")

	if h.model.detail == nil {
		t.Fatal("detail not opened")
	}
	if len(h.fake.opened) != 1 || h.fake.opened[0].ID != 2 {
		t.Fatalf("opened = %+v, want drama 2", h.fake.opened)
	}

	d := drama(2, "Beta")
	next := listsync.DetailComposer{Drama: d}.Compose(listsync.State{Connected: true})
	h.fake.renderers[0].Apply(next, listsync.Diff(listsync.Snapshot{}, next))
	h.flush()
	if h.model.detail.screen.applies != 1 {
		t.Fatalf("detail applies = %d, want 1", h.model.detail.screen.applies)
	}
	if !strings.Contains(h.model.View(), "Released") {
		t.Fatalf("detail view missing info panel:\n%s", h.model.View())
	}

	h.press("esc")
	if h.model.detail != nil {
		t.Fatal("esc should close the detail")
	}

	// Output from the closed screen is ignored.
	h.fake.renderers[0].Apply(next, listsync.Changeset{})
	h.fake.renderers[0].SetEmpty(true)
	h.flush()
	if h.model.list.applies != 1 || h.model.list.empty {
		t.Fatal("stale detail output reached the list")
	}
}

func TestModel_RefreshFailureShowsAlert(t *testing.T) {
	h := newHarness(t)
	h.press("r", "r")
	if len(h.fake.refreshes) != 1 {
		t.Fatalf("refreshes = %d, want 1 while in flight", len(h.fake.refreshes))
	}
	if !h.model.refreshing {
		t.Fatal("expected refreshing")
	}

	h.status.Begin()
	h.status.Finish(0, &linetv.Error{Kind: linetv.ErrConnection, Path: linetv.DramasPath})
	h.fake.refreshes[0](false)
	h.flush()

	if h.model.refreshing {
		t.Fatal("refresh should be done")
	}
	if !strings.Contains(h.model.alert, "could not be reached") {
		t.Fatalf("alert = %q", h.model.alert)
	}
	if !strings.Contains(h.model.View(), "Refresh failed") {
		t.Fatal("alert not rendered")
	}

	h.press("j", "q")
	if h.model.alert == "" {
		t.Fatal("alert dismissed by a non-dismiss key")
	}
	h.press("enter")
	if h.model.alert != "" {
		t.Fatal("enter should dismiss the alert")
	}
}

func TestModel_RefreshSuccessUpdatesHeader(t *testing.T) {
	h := newHarness(t)
	h.press("r")

	h.status.Begin()
	h.status.Finish(2, nil)
	h.fake.refreshes[0](true)
	h.flush()

	if h.model.alert != "" {
		t.Fatalf("alert = %q after success", h.model.alert)
	}
	if h.model.statusSnap.Origin != state.OriginNetwork {
		t.Fatalf("origin = %q, want network", h.model.statusSnap.Origin)
	}
	if !strings.Contains(h.model.renderHeader(), "live") {
		t.Fatalf("header = %q", h.model.renderHeader())
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	h := newHarness(t)
	h.press("T")
	if h.model.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", h.model.theme.Name)
	}
	h.press("L")

	saved, err := prefs.Load(h.prefs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Theme != "Nightfox" || !saved.ShowLogs {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	h := newHarness(t)
	h.press("?")
	if !strings.Contains(h.model.View(), "Keyboard Shortcuts") {
		t.Fatal("help not shown")
	}
	h.press("x")
	if h.model.showHelp {
		t.Fatal("help should close")
	}
}
