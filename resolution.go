package ioc

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// resolutionState is the chain of ids being constructed on one goroutine.
// Only its owning goroutine touches it.
type resolutionState struct {
	chain []string
}

// resolver tracks resolution chains per goroutine so that a builder looking
// up its own id fails instead of blocking on its own singleton cell.
type resolver struct {
	states sync.Map
	pool   sync.Pool
}

func newResolver() *resolver {
	return &resolver{
		pool: sync.Pool{
			New: func() interface{} {
				return &resolutionState{chain: make([]string, 0, 8)}
			},
		},
	}
}

// enter pushes id onto the chain of goroutine gid. The returned func pops it
// and must be called once construction finishes.
func (r *resolver) enter(gid int64, id string) (func(), error) {
	v, ok := r.states.Load(gid)
	if !ok {
		v = r.pool.Get()
		r.states.Store(gid, v)
	}
	state := v.(*resolutionState)

	for i, key := range state.chain {
		if key == id {
			chain := make([]string, 0, len(state.chain)-i+1)
			chain = append(chain, state.chain[i:]...)
			return nil, &CircularResolutionError{Chain: append(chain, id)}
		}
	}
	state.chain = append(state.chain, id)

	return func() {
		state.chain = state.chain[:len(state.chain)-1]
		if len(state.chain) == 0 {
			r.states.Delete(gid)
			r.pool.Put(state)
		}
	}, nil
}

// goid returns the current goroutine ID, parsed from the stack header.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))[0]
	id, _ := strconv.ParseInt(field, 10, 64)
	return id
}
