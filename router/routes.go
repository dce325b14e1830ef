// Package router decides whether the current session may open a client route.
package router

import (
	"github.com/jrsteele09/go-warehouse-client/users"
)

// Route names
const (
	RouteLogin              = "Login"
	RouteAdminDashboard     = "AdminDashboard"
	RouteSalesDashboard     = "SalesDashboard"
	RouteWarehouseDashboard = "WarehouseDashboard"
	RouteProducts           = "Products"
	RouteSuppliers          = "Suppliers"
	RouteCustomers          = "Customers"
	RouteOrders             = "Orders"
	RouteShipments          = "Shipments"
	RouteInventory          = "Inventory"
	RouteLocations          = "Locations"
	RouteScrap              = "Scrap"
	RouteReports            = "Reports"
)

// PathRoot is an alias of the login page.
const PathRoot = "/"

type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
	AllowedRoles []string // nil allows any authenticated role
}

// Restricted reports whether the route limits access by role.
func (r Route) Restricted() bool {
	return len(r.AllowedRoles) > 0
}

var (
	warehouseRoles = []string{users.RoleAdmin, users.RoleWarehouse}
	salesRoles     = []string{users.RoleAdmin, users.RoleSales}
)

// DefaultRoutes returns the warehouse application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteLogin, Path: "/login"},
		{Name: RouteAdminDashboard, Path: "/admin", RequiresAuth: true, AllowedRoles: []string{users.RoleAdmin}},
		{Name: RouteSalesDashboard, Path: "/sales", RequiresAuth: true, AllowedRoles: []string{users.RoleSales}},
		{Name: RouteWarehouseDashboard, Path: "/warehouse", RequiresAuth: true, AllowedRoles: []string{users.RoleWarehouse}},
		{Name: RouteProducts, Path: "/products", RequiresAuth: true, AllowedRoles: warehouseRoles},
		{Name: RouteSuppliers, Path: "/suppliers", RequiresAuth: true, AllowedRoles: warehouseRoles},
		{Name: RouteCustomers, Path: "/customers", RequiresAuth: true, AllowedRoles: salesRoles},
		{Name: RouteOrders, Path: "/orders", RequiresAuth: true, AllowedRoles: salesRoles},
		{Name: RouteShipments, Path: "/shipments", RequiresAuth: true, AllowedRoles: []string{users.RoleAdmin, users.RoleSales, users.RoleShippingVendor}},
		{Name: RouteInventory, Path: "/inventory", RequiresAuth: true, AllowedRoles: warehouseRoles},
		{Name: RouteLocations, Path: "/locations", RequiresAuth: true, AllowedRoles: warehouseRoles},
		{Name: RouteScrap, Path: "/scrap", RequiresAuth: true, AllowedRoles: warehouseRoles},
		{Name: RouteReports, Path: "/reports", RequiresAuth: true, AllowedRoles: []string{users.RoleAdmin, users.RoleSales, users.RoleWarehouse}},
	}
}

// dashboardPriority is the order in which roles pick a landing page.
var dashboardPriority = []struct {
	role  string
	route string
}{
	{users.RoleAdmin, RouteAdminDashboard},
	{users.RoleSales, RouteSalesDashboard},
	{users.RoleWarehouse, RouteWarehouseDashboard},
}

// DashboardFor returns the landing route for roles: Admin, then Sales, then
// Warehouse. ok is false when none of them is held.
func DashboardFor(roles []string) (string, bool) {
	for _, p := range dashboardPriority {
		for _, r := range roles {
			if r == p.role {
				return p.route, true
			}
		}
	}
	return "", false
}
