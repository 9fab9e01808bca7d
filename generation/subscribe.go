package generation

import "time"

// Subscribe returns a channel that receives a View after every change, and a function
// that cancels the subscription and closes the channel. Views are dropped while the
// channel buffer is full, so a slow renderer only ever misses intermediate frames.
func (s *Session) Subscribe(buf int) (<-chan View, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan View, max(buf, 1))
	s.subscribers[id] = ch
	ch <- s.viewLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

func (s *Session) broadcastLocked() {
	s.dirty = false
	s.lastFrame = time.Now()
	if len(s.subscribers) == 0 {
		return
	}
	view := s.viewLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- view:
		default:
		}
	}
}

// CloseSubscribers ends every subscription.
func (s *Session) CloseSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
