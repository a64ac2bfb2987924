package session

import (
	"sync"

	"clothora-backend/internal/checkout"
	"clothora-backend/internal/design"
	"clothora-backend/internal/wishlist"
)

// Session binds the per-user state containers. Design and checkout state
// are ephemeral and lost on restart; the wishlist store has its own
// lifecycle and is never reset by checkout or design resets.
type Session struct {
	Design   *design.Progress
	Checkout *checkout.State
	Wishlist *wishlist.Store
}

// Manager hands out sessions keyed by the authenticated user's stable
// identifier, creating them lazily on first touch.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Get(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{
			Design:   design.NewProgress(),
			Checkout: checkout.NewState(),
			Wishlist: wishlist.NewStore(),
		}
		m.sessions[userID] = sess
	}
	return sess
}
