// Package diff computes keyed edit scripts between two ordered sequences.
//
// Operations use batch semantics: Remove and the source of a Move refer to
// indexes in the old sequence, Insert and the destination of a Move refer to
// indexes in the new sequence. Update marks a key present in both whose value
// changed. Keys must be unique within each sequence.
package diff

import "fmt"

// Kind identifies an edit operation.
type Kind int

const (
	Insert Kind = iota + 1
	Remove
	Move
	Update
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Remove:
		return "remove"
	case Move:
		return "move"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Op is one edit. From is -1 for Insert, To is -1 for Remove.
type Op struct {
	Kind Kind
	From int
	To   int
}

func (o Op) String() string {
	switch o.Kind {
	case Insert:
		return fmt.Sprintf("insert %d", o.To)
	case Remove:
		return fmt.Sprintf("remove %d", o.From)
	default:
		return fmt.Sprintf("%s %d->%d", o.Kind, o.From, o.To)
	}
}

// Compute returns the edits turning before into after. Items kept in place form a
// longest common subsequence, so the number of moves is minimal. equal may be
// nil, in which case no Update is emitted.
//
// Ops are ordered removes (descending From), then moves and inserts
// (ascending To), then updates (ascending To).
func Compute[T any, K comparable](before, after []T, key func(T) K, equal func(a, b T) bool) []Op {
	oldIndex := make(map[K]int, len(before))
	for i, v := range before {
		oldIndex[key(v)] = i
	}
	newIndex := make(map[K]int, len(after))
	for i, v := range after {
		newIndex[key(v)] = i
	}

	var removes, placed, updates []Op

	// indexes of shared keys, in before order and in after order
	var oldCommon, newCommon []int
	for i := len(before) - 1; i >= 0; i-- {
		if _, ok := newIndex[key(before[i])]; !ok {
			removes = append(removes, Op{Kind: Remove, From: i, To: -1})
		}
	}
	for i, v := range before {
		if _, ok := newIndex[key(v)]; ok {
			oldCommon = append(oldCommon, i)
		}
	}
	for j, v := range after {
		if _, ok := oldIndex[key(v)]; ok {
			newCommon = append(newCommon, j)
		}
	}

	stay := lcs(oldCommon, newCommon, func(i, j int) bool { return key(before[i]) == key(after[j]) })

	for j, v := range after {
		i, ok := oldIndex[key(v)]
		switch {
		case !ok:
			placed = append(placed, Op{Kind: Insert, From: -1, To: j})
			continue
		case !stay[i]:
			placed = append(placed, Op{Kind: Move, From: i, To: j})
		}
		if equal != nil && !equal(before[i], v) {
			updates = append(updates, Op{Kind: Update, From: i, To: j})
		}
	}

	ops := make([]Op, 0, len(removes)+len(placed)+len(updates))
	ops = append(ops, removes...)
	ops = append(ops, placed...)
	ops = append(ops, updates...)
	return ops
}

// lcs marks the old indexes that belong to a longest common subsequence of
// a and b.
func lcs(a, b []int, same func(i, j int) bool) map[int]bool {
	n, m := len(a), len(b)
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if same(a[i], b[j]) {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	stay := make(map[int]bool, table[0][0])
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case same(a[i], b[j]):
			stay[a[i]] = true
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			i++
		default:
			j++
		}
	}
	return stay
}

// Apply replays ops against before. Values for inserted and updated
// positions are taken from after. It returns an error when ops do not
// describe a transformation of before into a sequence of len(after).
func Apply[T any](before, after []T, ops []Op) ([]T, error) {
	out := make([]T, len(after))
	filled := make([]bool, len(after))
	consumed := make([]bool, len(before))

	fill := func(to int, v T) error {
		if to < 0 || to >= len(after) {
			return fmt.Errorf("destination %d out of range", to)
		}
		if filled[to] {
			return fmt.Errorf("destination %d filled twice", to)
		}
		out[to], filled[to] = v, true
		return nil
	}
	consume := func(from int) error {
		if from < 0 || from >= len(before) {
			return fmt.Errorf("source %d out of range", from)
		}
		if consumed[from] {
			return fmt.Errorf("source %d used twice", from)
		}
		consumed[from] = true
		return nil
	}

	var updates []Op
	for _, op := range ops {
		switch op.Kind {
		case Remove:
			if err := consume(op.From); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		case Insert:
			if op.To < 0 || op.To >= len(after) {
				return nil, fmt.Errorf("%s: destination out of range", op)
			}
			if err := fill(op.To, after[op.To]); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		case Move:
			if err := consume(op.From); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if err := fill(op.To, before[op.From]); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		case Update:
			updates = append(updates, op)
		default:
			return nil, fmt.Errorf("unknown op %s", op)
		}
	}

	// untouched items keep their relative order in the free slots
	next := 0
	for i, v := range before {
		if consumed[i] {
			continue
		}
		for next < len(out) && filled[next] {
			next++
		}
		if next == len(out) {
			return nil, fmt.Errorf("too many items survive: before index %d has no slot", i)
		}
		out[next], filled[next] = v, true
	}
	for i, ok := range filled {
		if !ok {
			return nil, fmt.Errorf("slot %d left empty", i)
		}
	}

	for _, op := range updates {
		if op.To < 0 || op.To >= len(after) {
			return nil, fmt.Errorf("%s: destination out of range", op)
		}
		out[op.To] = after[op.To]
	}
	return out, nil
}
