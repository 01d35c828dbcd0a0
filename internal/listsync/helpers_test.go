package listsync

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/five82/reel/internal/linetv"
)

func drama(id int64, name string) linetv.Drama {
	return linetv.Drama{
		ID:         id,
		Name:       name,
		TotalViews: id * 1000,
		CreatedAt:  time.Date(2017, 11, 23, 2, 4, 39, 0, time.UTC),
		Thumb:      fmt.Sprintf("https://example.test/%d.jpg", id),
		Rating:     4,
	}
}

// recorder is a Renderer that keeps a transcript and replays every
// changeset against its own copy of the rows.
type recorder struct {
	t       *testing.T
	rows    Snapshot
	applies int
	empties []bool
	out     strings.Builder
}

func newRecorder(t *testing.T) *recorder {
	return &recorder{t: t}
}

func (r *recorder) Apply(next Snapshot, changes Changeset) {
	r.t.Helper()
	got, err := Apply(r.rows, next, changes)
	require.NoError(r.t, err)
	require.True(r.t, got.Equal(next), "replayed rows\n%s\nwant\n%s", got, next)
	r.rows = got
	r.applies++

	fmt.Fprintln(&r.out, "apply")
	for _, line := range strings.Split(changes.String(), "\n") {
		fmt.Fprintf(&r.out, "  %s\n", line)
	}
	for _, line := range strings.Split(next.String(), "\n") {
		fmt.Fprintf(&r.out, "  = %s\n", line)
	}
}

func (r *recorder) SetEmpty(empty bool) {
	r.empties = append(r.empties, empty)
	fmt.Fprintf(&r.out, "empty %t\n", empty)
}

func (r *recorder) step(label string) {
	fmt.Fprintf(&r.out, "== %s\n", label)
}

func keys(s Section) []string {
	out := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.Key().String())
	}
	return out
}
