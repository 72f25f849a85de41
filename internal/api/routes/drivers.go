package routes

import (
	"net/http"

	"github.com/citylink/admin-gateway/internal/api/proxy"
)

// VerificationStatuses are the outcomes an admin can record for a driver.
var VerificationStatuses = []string{"APPROVED", "REJECTED"}

func drivers() []proxy.Route {
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/drivers",
			Upstream:       "/api/drivers",
			Roles:          admins,
			Query:          paged("10", "search", "status", "isOnline", "vehicleType"),
			DefaultMessage: "Drivers retrieved successfully",
			DefaultError:   "Failed to fetch drivers",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/drivers/verifications/pending",
			Upstream:       "/api/drivers/verifications/pending",
			Roles:          admins,
			Query:          paged("10", "search"),
			DefaultMessage: "Pending verifications retrieved successfully",
			DefaultError:   "Failed to fetch pending verifications",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/drivers/:id",
			Upstream:       "/api/drivers/:id",
			Roles:          admins,
			DefaultMessage: "Driver retrieved successfully",
			DefaultError:   "Driver not found",
		},
		{
			Method:         http.MethodPut,
			Path:           "/api/drivers/:id",
			Upstream:       "/api/drivers/:id",
			Roles:          admins,
			Body:           proxy.BodyForm,
			Rules:          []proxy.Rule{proxy.Email("email", "Invalid email address")},
			DefaultMessage: "Driver updated successfully",
			DefaultError:   "Failed to update driver",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/drivers/:id",
			Upstream:       "/api/drivers/:id",
			Roles:          superAdminOnly,
			DefaultMessage: "Driver deleted successfully",
			DefaultError:   "Failed to delete driver",
		},
		{
			Method:   http.MethodPost,
			Path:     "/api/drivers/:id/verify",
			Upstream: "/api/drivers/:id/verify",
			Roles:    admins,
			Body:     proxy.BodyForm,
			Rules: []proxy.Rule{
				proxy.Required("status", "Verification status is required"),
				proxy.OneOf("status", VerificationStatuses, "Invalid verification status"),
			},
			SuccessStatus:  http.StatusOK,
			DefaultMessage: "Driver verification updated successfully",
			DefaultError:   "Failed to verify driver",
		},
	}
}
