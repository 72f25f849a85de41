package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/citylink/admin-gateway/internal/api/proxy"
	"github.com/citylink/admin-gateway/internal/core/domain"
)

// Roles accepted by the admin user update route.
var Roles = []string{
	domain.RoleSuperAdmin,
	domain.RoleCityAdmin,
	domain.RoleStoreOwner,
	domain.RoleDriver,
	domain.RoleCustomer,
}

// adminUsersUpstream routes the combined users listing to the collection
// that owns the requested user type.
func adminUsersUpstream(c echo.Context) string {
	switch strings.ToUpper(strings.TrimSpace(c.QueryParam("type"))) {
	case domain.RoleDriver:
		return "/api/drivers/all"
	case domain.RoleStoreOwner:
		return "/api/store-owners"
	default:
		return "/api/admin/users"
	}
}

type userFilters struct {
	Type   string `json:"type"`
	Search string `json:"search"`
	Status string `json:"status"`
}

type usersPayload struct {
	Users   json.RawMessage `json:"users"`
	Filters userFilters     `json:"filters"`
}

// adminUsersData wraps the upstream list together with the filters that
// produced it.
func adminUsersData(c echo.Context, data json.RawMessage) (json.RawMessage, error) {
	if len(data) == 0 {
		data = json.RawMessage("[]")
	}
	return json.Marshal(usersPayload{
		Users: data,
		Filters: userFilters{
			Type:   c.QueryParam("type"),
			Search: c.QueryParam("search"),
			Status: c.QueryParam("status"),
		},
	})
}

func admin() []proxy.Route {
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/admin/users",
			UpstreamFor:    adminUsersUpstream,
			Roles:          admins,
			Query:          paged("10", "search", "status"),
			Transform:      adminUsersData,
			DefaultMessage: "Users retrieved successfully",
			DefaultError:   "Failed to fetch users",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/admin/users/:id",
			Upstream:       "/api/admin/users/:id",
			Roles:          admins,
			DefaultMessage: "User retrieved successfully",
			DefaultError:   "User not found",
		},
		{
			Method:   http.MethodPut,
			Path:     "/api/admin/users/:id",
			Upstream: "/api/admin/users/:id",
			Roles:    admins,
			Body:     proxy.BodyForm,
			Rules: []proxy.Rule{
				proxy.Email("email", "Invalid email address"),
				proxy.OneOf("role", Roles, "Invalid role"),
			},
			DefaultMessage: "User updated successfully",
			DefaultError:   "Failed to update user",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/admin/users/:id",
			Upstream:       "/api/admin/users/:id",
			Roles:          superAdminOnly,
			DefaultMessage: "User deleted successfully",
			DefaultError:   "Failed to delete user",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/admin/stats",
			Upstream:       "/api/admin/stats",
			Roles:          admins,
			Query:          []proxy.QueryParam{proxy.Q("from"), proxy.Q("to"), proxy.Q("city")},
			DefaultMessage: "Statistics retrieved successfully",
			DefaultError:   "Failed to fetch statistics",
		},
	}
}
