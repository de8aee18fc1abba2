package draw

// Topic delivers events of one category to its subscribers synchronously,
// in subscription order.
type Topic[T any] struct {
	next int
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.next++
	id := t.next
	t.subs = append(t.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribers.
func (t *Topic[T]) Len() int { return len(t.subs) }

// publish builds the event lazily so snapshots are only taken when someone
// is listening.
func (t *Topic[T]) publish(build func() T) {
	if len(t.subs) == 0 {
		return
	}
	ev := build()
	// subscribers may unsubscribe while we deliver
	for _, s := range append([]subscriber[T](nil), t.subs...) {
		s.fn(ev)
	}
}

// FeaturesEvent carries features that were added or updated.
type FeaturesEvent struct {
	Features []Feature
}

// RemoveEvent carries the ids of removed features.
type RemoveEvent struct {
	IDs []ID
}

// SelectionEvent carries the selection after it changed.
type SelectionEvent struct {
	SelectedIDs []ID
}

// ChangeEvent is emitted after every store mutation with the full state.
type ChangeEvent struct {
	Features    []Feature
	SelectedIDs []ID
}

// ModeEvent is emitted on mode transitions and option changes.
type ModeEvent struct {
	Name    string
	Mode    Mode
	Options ModeOptions
}

// StoreEvents groups the store's topics.
type StoreEvents struct {
	Add       Topic[FeaturesEvent]
	Remove    Topic[RemoveEvent]
	Update    Topic[FeaturesEvent]
	Change    Topic[ChangeEvent]
	Selection Topic[SelectionEvent]
}
