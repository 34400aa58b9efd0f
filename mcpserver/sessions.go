package mcpserver

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/relaxwalk/rngcore/pattern"
	"github.com/relaxwalk/rngcore/walker"
)

// maxSessions bounds the server's in-memory session table; creating a
// session (load_schema or snapshot) evicts the oldest session by
// insertion order once the cap is hit,
// mirroring the teacher's specCacheStore size cap in shape (a bounded
// map is not allowed to grow without limit across a long-lived server
// process) without needing the teacher's TTL/mtime invalidation, since
// a session's lifetime is explicitly caller-managed here.
const maxSessions = 256

// session pairs one loaded grammar with one live GrammarWalker. Walkers
// are not safe for concurrent use (spec §5), so each session also holds
// its own mutex: two tool calls racing on the same session_id serialize
// rather than corrupt walker state.
type session struct {
	mu      sync.Mutex
	grammar *pattern.Grammar
	gw      *walker.GrammarWalker
}

type sessionStore struct {
	mu    sync.Mutex
	byID  map[string]*session
	order []string // insertion order, for eviction
}

var sessions = &sessionStore{byID: make(map[string]*session)}

func (s *sessionStore) create(g *pattern.Grammar, gw *walker.GrammarWalker) string {
	id := newSessionID()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) >= maxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
	s.byID[id] = &session{grammar: g, gw: gw}
	s.order = append(s.order, id)
	return id
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	return sess, ok
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func newSessionID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is a system-level problem; a predictable
		// fallback keeps the server usable rather than panicking on a
		// tool call.
		return fmt.Sprintf("sess-fallback-%x", buf)
	}
	return "sess-" + hex.EncodeToString(buf[:])
}
