package listsync

import "fmt"

// Cells dispatches an item to the render function registered for its
// variant.
type Cells[T any] struct {
	Offline func(OfflineItem) T
	Summary func(SummaryItem) T
	Detail  func(DetailItem) T
}

// Render returns the cell for item, or an error when no function is
// registered for its variant.
func (c Cells[T]) Render(item Item) (T, error) {
	var zero T
	switch it := item.(type) {
	case OfflineItem:
		if c.Offline != nil {
			return c.Offline(it), nil
		}
	case SummaryItem:
		if c.Summary != nil {
			return c.Summary(it), nil
		}
	case DetailItem:
		if c.Detail != nil {
			return c.Detail(it), nil
		}
	}
	if item == nil {
		return zero, fmt.Errorf("no cell for nil item")
	}
	return zero, fmt.Errorf("no cell registered for %s", item.Key().Kind)
}
