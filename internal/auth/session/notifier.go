package session

import (
	"sync"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
)

// notifier fans state changes out to subscribers in subscription order.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(domain.State)
	order  []int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]func(domain.State))}
}

func (n *notifier) subscribe(fn func(domain.State)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.order = append(n.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()

			delete(n.subs, id)
			for i, v := range n.order {
				if v == id {
					n.order = append(n.order[:i], n.order[i+1:]...)
					break
				}
			}
		})
	}
}

// publish calls every subscriber with st. Subscribers run on the caller's
// goroutine and must not block.
func (n *notifier) publish(st domain.State) {
	n.mu.Lock()
	fns := make([]func(domain.State), 0, len(n.order))
	for _, id := range n.order {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
