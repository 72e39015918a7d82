package dashboard

import (
	"sync"
	"time"

	"agrimarket/internal/model"
)

type views struct {
	browse   *Browse
	buyer    *Buyer
	farmer   *Farmer
	admin    *Admin
	lastSeen time.Time
}

// Registry owns the view states of every browser session. A dashboard state
// is created on first entry and rebuilt when a different user signs in on the
// same session.
type Registry struct {
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*views
}

func NewRegistry(d Deps) *Registry {
	return &Registry{
		deps:     d,
		now:      time.Now,
		sessions: make(map[string]*views),
	}
}

func (r *Registry) get(sid string) *views {
	v, ok := r.sessions[sid]
	if !ok {
		v = &views{}
		r.sessions[sid] = v
	}
	v.lastSeen = r.now()
	return v
}

func (r *Registry) Browse(sid string) *Browse {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.get(sid)
	if v.browse == nil {
		v.browse = newBrowse(sid, r.deps)
	}
	return v.browse
}

func (r *Registry) Buyer(sid string, u model.User) *Buyer {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.get(sid)
	if v.buyer == nil || v.buyer.User().ID != u.ID {
		v.buyer = newBuyer(sid, u, r.deps)
	}
	return v.buyer
}

func (r *Registry) Farmer(sid string, u model.User) *Farmer {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.get(sid)
	if v.farmer == nil || v.farmer.User().ID != u.ID {
		v.farmer = newFarmer(sid, u, r.deps)
	}
	return v.farmer
}

func (r *Registry) Admin(sid string, u model.User) *Admin {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.get(sid)
	if v.admin == nil || v.admin.User().ID != u.ID {
		v.admin = newAdmin(sid, u, r.deps)
	}
	return v.admin
}

// Clear drops every view state of the session, e.g. on logout.
func (r *Registry) Clear(sid string) {
	r.mu.Lock()
	delete(r.sessions, sid)
	r.mu.Unlock()
}

// Sweep drops sessions idle for longer than idle and returns how many.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for sid, v := range r.sessions {
		if v.lastSeen.Before(cutoff) {
			delete(r.sessions, sid)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
