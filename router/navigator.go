package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	wherrors "github.com/jrsteele09/go-warehouse-client/internal/errors"
)

// MaxRedirects bounds the redirects followed by one Push.
const MaxRedirects = 10

var ErrRedirectLoop = errors.New("too many redirects")

// Navigator resolves routes by name or path and moves between them through a Guard.
type Navigator struct {
	guard   *Guard
	byName  map[string]Route
	byPath  map[string]Route
	routes  []Route
	mu      sync.RWMutex
	current *Route
}

func NewNavigator(guard *Guard, routes []Route) *Navigator {
	n := &Navigator{
		guard:  guard,
		byName: make(map[string]Route, len(routes)),
		byPath: make(map[string]Route, len(routes)),
		routes: routes,
	}
	for _, r := range routes {
		n.byName[r.Name] = r
		n.byPath[r.Path] = r
	}
	return n
}

// Resolve finds a route by name or path. "/" resolves to Login.
func (n *Navigator) Resolve(nameOrPath string) (Route, error) {
	if nameOrPath == PathRoot {
		nameOrPath = RouteLogin
	}
	if r, ok := n.byName[nameOrPath]; ok {
		return r, nil
	}
	if r, ok := n.byPath[nameOrPath]; ok {
		return r, nil
	}
	return Route{}, wherrors.Wrapf(wherrors.ErrRouteNotFound, "[Navigator Resolve] %q", nameOrPath)
}

// Push navigates to nameOrPath, following guard redirects, and returns the route
// finally reached.
func (n *Navigator) Push(ctx context.Context, nameOrPath string) (Route, error) {
	to, err := n.Resolve(nameOrPath)
	if err != nil {
		return Route{}, err
	}

	for hops := 0; ; hops++ {
		if err := ctx.Err(); err != nil {
			return Route{}, err
		}
		d := n.guard.BeforeEach(ctx, to)
		if d.Allowed() {
			break
		}
		if hops >= MaxRedirects {
			return Route{}, fmt.Errorf("[Navigator Push] %s: %w", nameOrPath, ErrRedirectLoop)
		}
		if to, err = n.Resolve(d.Redirect); err != nil {
			return Route{}, err
		}
	}

	n.mu.Lock()
	n.current = &to
	n.mu.Unlock()
	return to, nil
}

// Current is the last route reached by Push.
func (n *Navigator) Current() (Route, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.current == nil {
		return Route{}, false
	}
	return *n.current, true
}

func (n *Navigator) Routes() []Route {
	out := make([]Route, len(n.routes))
	copy(out, n.routes)
	return out
}
