package quote

import "sync"

// DialogSession tracks whether the quote request dialog is open. It is passed
// explicitly to whatever needs to open or close the dialog.
type DialogSession struct {
	mu   sync.RWMutex
	open bool
}

func NewDialogSession() *DialogSession {
	return &DialogSession{}
}

func (s *DialogSession) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

func (s *DialogSession) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *DialogSession) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}
