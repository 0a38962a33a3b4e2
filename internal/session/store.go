package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/roster"
)

// Schedule is the shift list a client is working on
type Schedule struct {
	Surname    string         `json:"surname"`
	Source     string         `json:"source"`
	OutputName string         `json:"output_name"`
	Shifts     []roster.Shift `json:"shifts"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (s *Schedule) clone() *Schedule {
	c := *s
	c.Shifts = append([]roster.Shift(nil), s.Shifts...)
	return &c
}

// Store keeps one schedule per client session. The least recently used
// session is dropped once capacity is exceeded.
type Store struct {
	mutex    sync.Mutex
	capacity int
	items    map[string]*node
	head     *node // Most recently used
	tail     *node // Least recently used
	logger   *zap.Logger
}

type node struct {
	id       string
	schedule *Schedule
	prev     *node
	next     *node
}

// NewStore creates a store holding at most capacity sessions
func NewStore(capacity int, logger *zap.Logger) *Store {
	if capacity <= 0 {
		capacity = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		capacity: capacity,
		items:    make(map[string]*node),
		head:     &node{},
		tail:     &node{},
		logger:   logger,
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Get returns a copy of the session's schedule
func (s *Store) Get(id string) (*Schedule, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n, ok := s.items[id]
	if !ok {
		return nil, false
	}
	s.moveToFront(n)
	return n.schedule.clone(), true
}

// Put replaces the session's schedule
func (s *Store) Put(id string, schedule *Schedule) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := schedule.clone()
	stored.UpdatedAt = time.Now()

	if n, ok := s.items[id]; ok {
		n.schedule = stored
		s.moveToFront(n)
		return
	}

	n := &node{id: id, schedule: stored}
	s.addToFront(n)
	s.items[id] = n

	if len(s.items) > s.capacity {
		s.evictLRU()
	}
}

// Update applies fn to the session's schedule while holding the lock. The
// schedule is only replaced when fn succeeds.
func (s *Store) Update(id string, fn func(*Schedule) error) (*Schedule, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n, ok := s.items[id]
	if !ok {
		return nil, ErrNoSchedule
	}

	working := n.schedule.clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	n.schedule = working
	s.moveToFront(n)

	return working.clone(), nil
}

// Remove drops a session
func (s *Store) Remove(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n, ok := s.items[id]
	if !ok {
		return false
	}
	s.removeNode(n)
	delete(s.items, id)
	return true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.items)
}

func (s *Store) addToFront(n *node) {
	n.prev = s.head
	n.next = s.head.next
	s.head.next.prev = n
	s.head.next = n
}

func (s *Store) removeNode(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (s *Store) moveToFront(n *node) {
	s.removeNode(n)
	s.addToFront(n)
}

func (s *Store) evictLRU() {
	lru := s.tail.prev
	if lru == s.head {
		return
	}
	s.removeNode(lru)
	delete(s.items, lru.id)
	s.logger.Info("session schedule evicted",
		zap.String("session", lru.id),
		zap.String("surname", lru.schedule.Surname))
}
