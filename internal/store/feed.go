package store

import "sync"

// Feed fans change notifications out to subscribers of a collection path.
// Notifications carry no payload and coalesce: a subscriber that has not yet
// consumed a pending signal does not receive a second one.
type Feed struct {
	mu   sync.Mutex
	subs map[Path]map[chan struct{}]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[Path]map[chan struct{}]struct{})}
}

// Subscribe registers interest in path. The returned cancel func removes the
// subscription; it is safe to call more than once.
func (f *Feed) Subscribe(path Path) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	f.mu.Lock()
	set, ok := f.subs[path]
	if !ok {
		set = make(map[chan struct{}]struct{})
		f.subs[path] = set
	}
	set[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs[path], ch)
			if len(f.subs[path]) == 0 {
				delete(f.subs, path)
			}
		})
	}
}

// Publish signals every subscriber of the given paths.
func (f *Feed) Publish(paths ...Path) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range paths {
		for ch := range f.subs[p] {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers returns the number of live subscriptions on path.
func (f *Feed) Subscribers(path Path) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[path])
}
