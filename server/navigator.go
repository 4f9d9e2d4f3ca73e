package server

import (
	"sync"

	"github.com/jrsteele09/go-portal-session/auth"
)

var _ auth.Navigator = (*PendingNavigator)(nil)

// PendingNavigator holds the last navigation the controller asked for until the
// front-end collects it. A timer driven logout has no request to answer, so the
// redirect waits here.
type PendingNavigator struct {
	mu  sync.Mutex
	url string
}

func NewPendingNavigator() *PendingNavigator {
	return &PendingNavigator{}
}

func (n *PendingNavigator) Redirect(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.url = url
}

// Take returns the pending URL and clears it.
func (n *PendingNavigator) Take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	url := n.url
	n.url = ""
	return url
}
