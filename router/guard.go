package router

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-warehouse-client/internal/utils"
	"github.com/jrsteele09/go-warehouse-client/metrics"
	"github.com/jrsteele09/go-warehouse-client/notifications"
	"github.com/jrsteele09/go-warehouse-client/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session is the view of the session store the guard needs.
type Session interface {
	Token() string
	Roles() []string
	IsAuthenticated() bool
	CheckTokenExpiration(ctx context.Context) bool
	ClearSession()
	ShowNotification(n notifications.Notification) int64
}

var _ Session = (*session.Store)(nil)

const permissionDeniedMessage = "You do not have permission to access this page"

// Decision is the outcome of a guard check. An empty Redirect allows navigation.
type Decision struct {
	Redirect string
}

func Allow() Decision {
	return Decision{}
}

func RedirectTo(route string) Decision {
	return Decision{Redirect: route}
}

func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

func (d Decision) String() string {
	if d.Allowed() {
		return "allow"
	}
	return fmt.Sprintf("redirect(%s)", d.Redirect)
}

type Guard struct {
	session Session
	metrics *metrics.Collector
	log     zerolog.Logger
}

type GuardOption func(*Guard)

func WithGuardLogger(l zerolog.Logger) GuardOption {
	return func(g *Guard) {
		g.log = l
	}
}

func WithGuardMetrics(c *metrics.Collector) GuardOption {
	return func(g *Guard) {
		g.metrics = c
	}
}

func NewGuard(s Session, opts ...GuardOption) *Guard {
	g := &Guard{
		session: s,
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BeforeEach runs before every navigation to to.
//
//  1. A held but expired token logs the session out and sends the user to Login.
//  2. Public routes are open. An authenticated user heading for Login lands on
//     their dashboard instead, when they have one.
//  3. Protected routes without a live session clear it and send the user to Login.
//  4. Role restricted routes the user holds none of the roles for show one
//     warning and redirect to the user's dashboard, or Login without one.
func (g *Guard) BeforeEach(ctx context.Context, to Route) Decision {
	d := g.decide(ctx, to)
	g.metrics.RecordGuardDecision(decisionLabel(d), to.Name)
	g.log.Debug().Str("route", to.Name).Str("decision", d.String()).Msg("navigation guard")
	return d
}

func (g *Guard) decide(ctx context.Context, to Route) Decision {
	if g.session.Token() != "" && !g.session.CheckTokenExpiration(ctx) {
		return RedirectTo(RouteLogin)
	}

	if !to.RequiresAuth {
		if to.Name == RouteLogin && g.session.IsAuthenticated() {
			if dashboard, ok := DashboardFor(g.session.Roles()); ok {
				return RedirectTo(dashboard)
			}
		}
		return Allow()
	}

	if !g.session.IsAuthenticated() {
		g.session.ClearSession()
		return RedirectTo(RouteLogin)
	}

	if to.Restricted() {
		roles := g.session.Roles()
		if !utils.Intersects(to.AllowedRoles, roles) {
			g.session.ShowNotification(notifications.Notification{
				Type:    notifications.Warning,
				Message: permissionDeniedMessage,
			})
			if dashboard, ok := DashboardFor(roles); ok {
				return RedirectTo(dashboard)
			}
			return RedirectTo(RouteLogin)
		}
	}
	return Allow()
}

func decisionLabel(d Decision) string {
	if d.Allowed() {
		return "allow"
	}
	return "redirect"
}
