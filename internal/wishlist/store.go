package wishlist

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clothora-backend/internal/models"
)

// Store holds a user's saved design candidates. It has its own lifecycle:
// checkout and design resets never touch it.
type Store struct {
	mu    sync.Mutex
	items []models.Design
}

func NewStore() *Store {
	return &Store{}
}

// isInlineImageRef reports whether an identifier is raw image data rather
// than a stable ID.
func isInlineImageRef(id string) bool {
	return strings.HasPrefix(id, "data:image")
}

// mintID derives a stable identifier from time and randomness. Wishlist
// identifiers must never be raw image data.
func mintID() string {
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format(time.RFC3339Nano), uuid.NewString()[:8])
}

// Add inserts a design unless its ID or image reference already matches an
// existing entry, in which case the add is a no-op (first write wins).
// Inline-image identifiers are replaced with a minted stable ID before
// insertion. The stored item and whether it was inserted are returned.
func (s *Store) Add(item models.Design) (models.Design, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.ID == item.ID || existing.ImageURL == item.ImageURL {
			return existing, false
		}
	}
	if isInlineImageRef(item.ID) {
		item.ID = mintID()
	}
	s.items = append(s.items, item)
	return item, true
}

// Remove deletes the first entry whose ID or image reference matches.
// Transient designs may be referenced by image before a stable ID exists,
// so both keys are accepted.
func (s *Store) Remove(idOrImageRef string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == idOrImageRef || item.ImageURL == idOrImageRef {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains matches by ID or image reference, symmetric to Remove.
func (s *Store) Contains(idOrImageRef string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == idOrImageRef || item.ImageURL == idOrImageRef {
			return true
		}
	}
	return false
}

// Items returns a copy of the saved designs in insertion order.
func (s *Store) Items() []models.Design {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Design, len(s.items))
	copy(out, s.items)
	return out
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}
