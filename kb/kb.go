package kb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/gnss-geodesy/geodesy"
	"github.com/signalsfoundry/gnss-geodesy/model"
)

var (
	ErrEmptyID           = errors.New("empty ID")
	ErrObserverExists    = errors.New("observer already exists")
	ErrObserverNotFound  = errors.New("observer not found")
	ErrSatelliteExists   = errors.New("satellite already exists")
	ErrSatelliteNotFound = errors.New("satellite not found")
)

// EventType indicates what kind of change happened in the KB.
type EventType int

const (
	EventSatellitePositionUpdated EventType = iota
)

// Event is emitted to subscribers when something interesting happens.
type Event struct {
	Type      EventType
	Satellite model.Satellite
}

// KnowledgeBase is an in-memory, thread-safe catalog of observers and
// satellites.
type KnowledgeBase struct {
	mu sync.RWMutex

	observers  map[string]*model.Observer
	satellites map[string]*model.Satellite

	subs   []subscriber
	nextID uint64
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// NewKnowledgeBase constructs an empty KB.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		observers:  make(map[string]*model.Observer),
		satellites: make(map[string]*model.Satellite),
	}
}

// AddObserver adds a new observer. It returns an error if the ID is empty or
// already exists.
func (kb *KnowledgeBase) AddObserver(o *model.Observer) error {
	if o == nil || o.ID == "" {
		return ErrEmptyID
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.observers[o.ID]; exists {
		return fmt.Errorf("%w: %q", ErrObserverExists, o.ID)
	}
	kb.observers[o.ID] = o
	return nil
}

// AddSatellite adds a new satellite. It returns an error if the ID is empty
// or already exists.
func (kb *KnowledgeBase) AddSatellite(s *model.Satellite) error {
	if s == nil || s.ID == "" {
		return ErrEmptyID
	}
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.satellites[s.ID]; exists {
		return fmt.Errorf("%w: %q", ErrSatelliteExists, s.ID)
	}
	kb.satellites[s.ID] = s
	return nil
}

// Observer returns a copy of the observer with the given ID.
func (kb *KnowledgeBase) Observer(id string) (model.Observer, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	o, ok := kb.observers[id]
	if !ok {
		return model.Observer{}, fmt.Errorf("%w: %q", ErrObserverNotFound, id)
	}
	return *o, nil
}

// Satellite returns a copy of the satellite with the given ID.
func (kb *KnowledgeBase) Satellite(id string) (model.Satellite, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	s, ok := kb.satellites[id]
	if !ok {
		return model.Satellite{}, fmt.Errorf("%w: %q", ErrSatelliteNotFound, id)
	}
	return *s, nil
}

// ListObservers returns a snapshot of all observers ordered by ID.
func (kb *KnowledgeBase) ListObservers() []model.Observer {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	res := make([]model.Observer, 0, len(kb.observers))
	for _, o := range kb.observers {
		res = append(res, *o)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// ListSatellites returns a snapshot of all satellites ordered by ID.
func (kb *KnowledgeBase) ListSatellites() []model.Satellite {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	res := make([]model.Satellite, 0, len(kb.satellites))
	for _, s := range kb.satellites {
		res = append(res, *s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// UpdateSatellitePosition records a satellite's ECEF position and notifies
// subscribers.
func (kb *KnowledgeBase) UpdateSatellitePosition(id string, pos geodesy.ECEF) error {
	kb.mu.Lock()
	s, ok := kb.satellites[id]
	if !ok {
		kb.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrSatelliteNotFound, id)
	}
	s.Position = pos
	event := Event{
		Type:      EventSatellitePositionUpdated,
		Satellite: *s,
	}
	subs := append([]subscriber{}, kb.subs...)
	kb.mu.Unlock()

	// Notify outside the lock so subscribers may call back into the KB.
	for _, sub := range subs {
		sub.fn(event)
	}
	return nil
}

// Subscribe registers a callback for KB events. It returns an unsubscribe
// function; calling it more than once is a no-op.
func (kb *KnowledgeBase) Subscribe(fn func(Event)) (unsubscribe func()) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.nextID++
	id := kb.nextID
	kb.subs = append(kb.subs, subscriber{id: id, fn: fn})

	return func() {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		for i, sub := range kb.subs {
			if sub.id == id {
				kb.subs = append(kb.subs[:i], kb.subs[i+1:]...)
				return
			}
		}
	}
}
