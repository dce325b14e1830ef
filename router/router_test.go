package router_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-warehouse-client/api"
	wherrors "github.com/jrsteele09/go-warehouse-client/internal/errors"
	"github.com/jrsteele09/go-warehouse-client/metrics"
	"github.com/jrsteele09/go-warehouse-client/notifications"
	"github.com/jrsteele09/go-warehouse-client/router"
	"github.com/jrsteele09/go-warehouse-client/session"
	fakestoragerepo "github.com/jrsteele09/go-warehouse-client/storage/repofake"
	"github.com/jrsteele09/go-warehouse-client/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type nopAuthAPI struct{}

func (nopAuthAPI) Login(context.Context, api.Credentials) (*api.LoginResponse, error) {
	return &api.LoginResponse{}, nil
}

func (nopAuthAPI) Logout(context.Context) (*api.StatusResponse, error) {
	return &api.StatusResponse{Envelope: api.Envelope{Success: true}}, nil
}

func (nopAuthAPI) CurrentUser(context.Context) (*api.UserResponse, error) {
	return &api.UserResponse{}, nil
}

func tokenWithExp(t *testing.T, exp time.Time) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	require.NoError(t, err)
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func newSession(t *testing.T, roles ...string) *session.Store {
	t.Helper()
	s := session.New(nopAuthAPI{}, fakestoragerepo.NewFakeStorageRepo())
	t.Cleanup(s.Close)
	if len(roles) > 0 {
		s.SetToken(tokenWithExp(t, time.Now().Add(time.Hour)))
		s.SetRoles(roles)
	}
	return s
}

func route(t *testing.T, name string) router.Route {
	t.Helper()
	for _, r := range router.DefaultRoutes() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("route %s not in table", name)
	return router.Route{}
}

func TestDashboardFor(t *testing.T) {
	tests := []struct {
		roles []string
		want  string
		ok    bool
	}{
		{[]string{users.RoleWarehouse, users.RoleAdmin}, router.RouteAdminDashboard, true},
		{[]string{users.RoleWarehouse, users.RoleSales}, router.RouteSalesDashboard, true},
		{[]string{users.RoleWarehouse}, router.RouteWarehouseDashboard, true},
		{[]string{users.RoleOwner}, "", false},
		{nil, "", false},
	}
	for _, tc := range tests {
		got, ok := router.DashboardFor(tc.roles)
		require.Equal(t, tc.ok, ok, "%v", tc.roles)
		require.Equal(t, tc.want, got, "%v", tc.roles)
	}
}

func TestGuard_BeforeEach(t *testing.T) {
	ctx := context.Background()

	t.Run("WarehouseToAdminRouteGoesToWarehouseDashboard", func(t *testing.T) {
		s := newSession(t, users.RoleWarehouse)
		g := router.NewGuard(s)

		d := g.BeforeEach(ctx, route(t, router.RouteAdminDashboard))
		require.Equal(t, router.RedirectTo(router.RouteWarehouseDashboard), d)

		notes := s.Notifications()
		require.Len(t, notes, 1)
		require.Equal(t, notifications.Warning, notes[0].Type)
		require.True(t, s.IsAuthenticated())
	})

	t.Run("SalesOnLoginGoesToSalesDashboard", func(t *testing.T) {
		s := newSession(t, users.RoleSales)
		d := router.NewGuard(s).BeforeEach(ctx, route(t, router.RouteLogin))
		require.Equal(t, router.RedirectTo(router.RouteSalesDashboard), d)
		require.Empty(t, s.Notifications())
	})

	t.Run("LoginWithoutDashboardRoleAllowed", func(t *testing.T) {
		s := newSession(t, users.RoleShippingVendor)
		d := router.NewGuard(s).BeforeEach(ctx, route(t, router.RouteLogin))
		require.True(t, d.Allowed())
	})

	t.Run("AnonymousOnLoginAllowed", func(t *testing.T) {
		d := router.NewGuard(newSession(t)).BeforeEach(ctx, route(t, router.RouteLogin))
		require.True(t, d.Allowed())
	})

	t.Run("AnonymousOnProtectedGoesToLogin", func(t *testing.T) {
		s := newSession(t)
		d := router.NewGuard(s).BeforeEach(ctx, route(t, router.RouteOrders))
		require.Equal(t, router.RedirectTo(router.RouteLogin), d)
		require.Empty(t, s.Notifications())
	})

	t.Run("ExpiredTokenLogsOut", func(t *testing.T) {
		s := newSession(t)
		s.SetToken(tokenWithExp(t, time.Now().Add(-time.Minute)))
		s.SetRoles([]string{users.RoleAdmin})

		d := router.NewGuard(s).BeforeEach(ctx, route(t, router.RouteProducts))
		require.Equal(t, router.RedirectTo(router.RouteLogin), d)
		require.Empty(t, s.Token())
		require.Empty(t, s.Roles())
	})

	t.Run("NoMatchingRoleGoesToLogin", func(t *testing.T) {
		s := newSession(t, users.RoleOwner)
		d := router.NewGuard(s).BeforeEach(ctx, route(t, router.RouteScrap))
		require.Equal(t, router.RedirectTo(router.RouteLogin), d)
		require.Len(t, s.Notifications(), 1)
	})

	t.Run("SharedRouteAllowed", func(t *testing.T) {
		s := newSession(t, users.RoleShippingVendor)
		d := router.NewGuard(s).BeforeEach(ctx, route(t, router.RouteShipments))
		require.True(t, d.Allowed())
	})

	t.Run("RecordsMetrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		g := router.NewGuard(newSession(t, users.RoleSales), router.WithGuardMetrics(metrics.NewCollector(reg)))
		g.BeforeEach(ctx, route(t, router.RouteOrders))
		g.BeforeEach(ctx, route(t, router.RouteInventory))

		count, err := testutil.GatherAndCount(reg, "warehouse_client_guard_decisions_total")
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})
}

func TestNavigator(t *testing.T) {
	ctx := context.Background()

	t.Run("RootResolvesToLogin", func(t *testing.T) {
		nav := router.NewNavigator(router.NewGuard(newSession(t)), router.DefaultRoutes())
		r, err := nav.Resolve("/")
		require.NoError(t, err)
		require.Equal(t, router.RouteLogin, r.Name)

		r, err = nav.Resolve("/inventory")
		require.NoError(t, err)
		require.Equal(t, router.RouteInventory, r.Name)

		_, err = nav.Resolve("/nowhere")
		require.ErrorIs(t, err, wherrors.ErrRouteNotFound)
	})

	t.Run("PushFollowsRedirects", func(t *testing.T) {
		s := newSession(t, users.RoleWarehouse)
		nav := router.NewNavigator(router.NewGuard(s), router.DefaultRoutes())

		_, ok := nav.Current()
		require.False(t, ok)

		r, err := nav.Push(ctx, "/")
		require.NoError(t, err)
		require.Equal(t, router.RouteWarehouseDashboard, r.Name)

		r, err = nav.Push(ctx, router.RouteCustomers)
		require.NoError(t, err)
		require.Equal(t, router.RouteWarehouseDashboard, r.Name)

		current, ok := nav.Current()
		require.True(t, ok)
		require.Equal(t, "/warehouse", current.Path)
	})

	t.Run("RedirectLoopDetected", func(t *testing.T) {
		// an admin dashboard admins cannot open redirects to itself
		routes := []router.Route{
			{Name: router.RouteLogin, Path: "/login"},
			{Name: router.RouteAdminDashboard, Path: "/admin", RequiresAuth: true, AllowedRoles: []string{users.RoleSales}},
		}
		s := newSession(t, users.RoleAdmin)
		nav := router.NewNavigator(router.NewGuard(s), routes)

		_, err := nav.Push(ctx, router.RouteAdminDashboard)
		require.ErrorIs(t, err, router.ErrRedirectLoop)
	})
}
