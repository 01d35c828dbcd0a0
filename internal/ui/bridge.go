package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/reel/internal/listsync"
)

// listScreen identifies the catalog list. Detail screens use ids from 1.
const listScreen = 0

// Bridge carries engine output from the main loop into the running program.
// Renderers obtained from it may be handed to engines before the program
// exists; output is dropped until Attach is called.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewBridge returns an unattached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to send, normally (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) forward(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// List returns the renderer for the catalog list.
func (b *Bridge) List() listsync.Renderer {
	return screenRenderer{bridge: b, screen: listScreen}
}

func (b *Bridge) screen(id int) listsync.Renderer {
	return screenRenderer{bridge: b, screen: id}
}

var _ listsync.Renderer = screenRenderer{}

type screenRenderer struct {
	bridge *Bridge
	screen int
}

func (r screenRenderer) Apply(next listsync.Snapshot, changes listsync.Changeset) {
	r.bridge.forward(applyMsg{screen: r.screen, next: next, changes: changes})
}

func (r screenRenderer) SetEmpty(empty bool) {
	r.bridge.forward(emptyMsg{screen: r.screen, empty: empty})
}

// Messages

type applyMsg struct {
	screen  int
	next    listsync.Snapshot
	changes listsync.Changeset
}

type emptyMsg struct {
	screen int
	empty  bool
}

type refreshDoneMsg struct {
	ok bool
}
