package reconcile

import "sync"

// bookingLocks serializes transitions per booking id. Transitions on
// different bookings proceed independently.
type bookingLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newBookingLocks() *bookingLocks {
	return &bookingLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a booking id, creating one if it doesn't exist.
func (s *bookingLocks) get(bookingID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[bookingID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[bookingID] = lock
	}
	return lock
}
