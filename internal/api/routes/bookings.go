package routes

import (
	"net/http"

	"github.com/citylink/admin-gateway/internal/api/proxy"
)

// EmergencyStatuses is the emergency request lifecycle.
var EmergencyStatuses = []string{"PENDING", "ASSIGNED", "IN_PROGRESS", "RESOLVED", "CANCELLED"}

// bookings are readable and actionable by any authenticated user; the
// backend scopes them to the caller.
func bookings() []proxy.Route {
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/bookings",
			Upstream:       "/api/bookings",
			Query:          paged("10", "status", "serviceType", "from", "to"),
			DefaultMessage: "Bookings retrieved successfully",
			DefaultError:   "Failed to fetch bookings",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/bookings/:id",
			Upstream:       "/api/bookings/:id",
			DefaultMessage: "Booking retrieved successfully",
			DefaultError:   "Booking not found",
		},
		{
			Method:         http.MethodPut,
			Path:           "/api/bookings/:id/status",
			Upstream:       "/api/bookings/:id/status",
			Body:           proxy.BodyForm,
			Rules:          []proxy.Rule{proxy.Required("status", "Booking status is required")},
			DefaultMessage: "Booking status updated successfully",
			DefaultError:   "Failed to update booking status",
		},
		{
			Method:         http.MethodPost,
			Path:           "/api/bookings/:id/cancel",
			Upstream:       "/api/bookings/:id/cancel",
			Body:           proxy.BodyForm,
			SuccessStatus:  http.StatusOK,
			DefaultMessage: "Booking cancelled successfully",
			DefaultError:   "Failed to cancel booking",
		},
	}
}

func reviews() []proxy.Route {
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/reviews",
			Upstream:       "/api/reviews",
			Query:          paged("10", "placeId", "storeId", "driverId", "rating"),
			DefaultMessage: "Reviews retrieved successfully",
			DefaultError:   "Failed to fetch reviews",
		},
		{
			Method:   http.MethodPost,
			Path:     "/api/reviews",
			Upstream: "/api/reviews",
			Body:     proxy.BodyForm,
			Rules: []proxy.Rule{
				proxy.Required("rating", "Rating is required"),
				proxy.IntRange("rating", 1, 5, "Rating must be between 1 and 5"),
			},
			DefaultMessage: "Review created successfully",
			DefaultError:   "Failed to create review",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/reviews/:id",
			Upstream:       "/api/reviews/:id",
			Roles:          admins,
			DefaultMessage: "Review deleted successfully",
			DefaultError:   "Failed to delete review",
		},
	}
}

func emergencies() []proxy.Route {
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/emergency/requests",
			Upstream:       "/api/emergency/requests",
			Roles:          admins,
			Query:          paged("20", "status", "type", "city"),
			DefaultMessage: "Emergency requests retrieved successfully",
			DefaultError:   "Failed to fetch emergency requests",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/emergency/requests/:id",
			Upstream:       "/api/emergency/requests/:id",
			Roles:          admins,
			DefaultMessage: "Emergency request retrieved successfully",
			DefaultError:   "Emergency request not found",
		},
		{
			Method:   http.MethodPut,
			Path:     "/api/emergency/requests/:id/status",
			Upstream: "/api/emergency/requests/:id/status",
			Roles:    admins,
			Body:     proxy.BodyForm,
			Rules: []proxy.Rule{
				proxy.Required("status", "Status is required"),
				proxy.OneOf("status", EmergencyStatuses, "Invalid emergency status"),
			},
			DefaultMessage: "Emergency request updated successfully",
			DefaultError:   "Failed to update emergency request",
		},
	}
}
