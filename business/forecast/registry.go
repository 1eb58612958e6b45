package forecast

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"hotelPricing/domain"
)

type Scope struct {
	HotelID    uint `json:"hotel_id"`
	RoomTypeID uint `json:"room_type_id"`
}

func (s Scope) String() string {
	return fmt.Sprintf("hotel=%d|room_type=%d", s.HotelID, s.RoomTypeID)
}

// ScopeModel is the fitted state of one scope. Once stored in a Registry it is
// never mutated; retraining stores a new value with a higher Version.
type ScopeModel struct {
	Scope         Scope                `json:"scope"`
	Version       int                  `json:"version"`
	Seasonal      *SeasonalModel       `json:"seasonal,omitempty"`
	Regressor     *Regressor           `json:"regressor,omitempty"`
	HistorySource domain.HistorySource `json:"history_source"`
	HistoryPoints int                  `json:"history_points"`
	TrainedAt     time.Time            `json:"trained_at"`
}

// next returns a copy of m with an incremented version. A nil m starts at 1.
func (m *ScopeModel) next(scope Scope) *ScopeModel {
	if m == nil {
		return &ScopeModel{Scope: scope, Version: 1}
	}
	cp := *m
	cp.Version++
	return &cp
}

// Registry owns the model state of every trained scope.
type Registry struct {
	mu        sync.RWMutex
	models    map[Scope]*ScopeModel
	trainMu   map[Scope]*scopeLock
	maxScopes int
}

func NewRegistry(maxScopes int) *Registry {
	return &Registry{
		models:    make(map[Scope]*ScopeModel),
		trainMu:   make(map[Scope]*scopeLock),
		maxScopes: maxScopes,
	}
}

func (r *Registry) Get(scope Scope) (*ScopeModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[scope]
	return m, ok
}

// Put stores m as the current model of its scope and evicts the oldest scopes
// when the registry is over capacity.
func (r *Registry) Put(m *ScopeModel) {
	if m == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.Scope] = m
	r.capScopes(m.Scope)
}

// scopeLock is a train mutex shared by the holders and waiters of one scope.
type scopeLock struct {
	mu   sync.Mutex
	refs int
}

// lockScope serializes training of one scope and returns the unlock func. The
// lock entry is dropped once the last holder or waiter releases it.
func (r *Registry) lockScope(scope Scope) func() {
	r.mu.Lock()
	l, ok := r.trainMu[scope]
	if !ok {
		l = &scopeLock{}
		r.trainMu[scope] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.trainMu, scope)
		}
		r.mu.Unlock()
	}
}

func (r *Registry) lockCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trainMu)
}

// Models returns the current models ordered by scope.
func (r *Registry) Models() []*ScopeModel {
	r.mu.RLock()
	out := make([]*ScopeModel, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope.HotelID != out[j].Scope.HotelID {
			return out[i].Scope.HotelID < out[j].Scope.HotelID
		}
		return out[i].Scope.RoomTypeID < out[j].Scope.RoomTypeID
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// capScopes drops the least recently trained scopes, never keep. Caller holds mu.
func (r *Registry) capScopes(keep Scope) {
	if r.maxScopes <= 0 || len(r.models) <= r.maxScopes {
		return
	}

	type scopeInfo struct {
		scope     Scope
		trainedAt time.Time
		version   int
	}

	infos := make([]scopeInfo, 0, len(r.models))
	for s, m := range r.models {
		if s == keep {
			continue
		}
		infos = append(infos, scopeInfo{scope: s, trainedAt: m.TrainedAt, version: m.Version})
	}

	// oldest & least retrained first
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].trainedAt.Equal(infos[j].trainedAt) {
			return infos[i].version < infos[j].version
		}
		return infos[i].trainedAt.Before(infos[j].trainedAt)
	})

	toDrop := len(r.models) - r.maxScopes
	for i := 0; i < toDrop && i < len(infos); i++ {
		delete(r.models, infos[i].scope)
	}
}
