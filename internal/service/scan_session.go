package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScanSession is the per-terminal interactive state for one deposit visit.
// All cross-screen state (bound identity, in-flight flag) lives here rather
// than in package globals, so two terminals never bleed into each other.
type ScanSession struct {
	ID string

	mu         sync.Mutex
	processing bool
	identity   string
	fullName   string
	section    *string
	lastActive time.Time
}

// tryBegin marks a scan as in flight. It returns false when a prior scan is
// still being processed; the caller drops the new scan instead of queuing it.
func (s *ScanSession) tryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return false
	}
	s.processing = true
	s.lastActive = time.Now()
	return true
}

// end releases the in-flight flag.
func (s *ScanSession) end() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

// captureIdentity stores the scanned LRN. It returns false if the session has
// already delivered an identity; repeat decode events are swallowed.
func (s *ScanSession) captureIdentity(lrn string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != "" {
		return false
	}
	s.identity = lrn
	s.lastActive = time.Now()
	return true
}

// BindAccount attaches the student's name and optional section, as collected
// on the account screen. The explicit lrn wins over a previously scanned one
// so manual entry can correct a bad sticker.
func (s *ScanSession) BindAccount(lrn, fullName string, section *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lrn != "" {
		s.identity = lrn
	}
	s.fullName = fullName
	s.section = section
	s.lastActive = time.Now()
}

// Identity returns the bound LRN, name and section snapshot.
func (s *ScanSession) Identity() (lrn, fullName string, section *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.fullName, s.section
}

// SessionManager owns the live kiosk sessions and sweeps idle ones.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*ScanSession
	ttl      time.Duration
}

// NewSessionManager creates a SessionManager that drops sessions idle for
// longer than ttl.
func NewSessionManager(ttl time.Duration) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*ScanSession),
		ttl:      ttl,
	}
	go m.sweep()
	return m
}

// Open creates a new session.
func (m *SessionManager) Open() *ScanSession {
	s := &ScanSession{
		ID:         uuid.New().String(),
		lastActive: time.Now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session by ID.
func (m *SessionManager) Get(id string) (*ScanSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close drops a session.
func (m *SessionManager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *SessionManager) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		cutoff := time.Now().Add(-m.ttl)
		m.mu.Lock()
		for id, s := range m.sessions {
			s.mu.Lock()
			idle := s.lastActive.Before(cutoff) && !s.processing
			s.mu.Unlock()
			if idle {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
