package routes

import (
	"net/http"
	"strings"

	"github.com/citylink/admin-gateway/internal/api/proxy"
)

// services covers service types, zones and pricing rules. Mutations are
// SUPER_ADMIN only and carry the entity id in the body.
func services() []proxy.Route {
	var routes []proxy.Route
	routes = append(routes, crudByBodyID(resource{
		path:     "/api/services/types",
		singular: "Service type",
		plural:   "Service types",
		query:    paged("20", "search", "isActive"),
		files:    []proxy.FileField{{Name: "icon"}},
		create: append([]proxy.Rule{
			proxy.Required("name", "Service type name is required"),
		}, nonNegative(map[string]string{
			"basePrice": "Base price must be a non-negative number",
		})...),
		update: nonNegative(map[string]string{
			"basePrice": "Base price must be a non-negative number",
		}),
	})...)
	routes = append(routes, crudByBodyID(resource{
		path:     "/api/services/zones",
		singular: "Service zone",
		plural:   "Service zones",
		query:    paged("20", "search", "isActive", "serviceTypeId", "city"),
		create: append([]proxy.Rule{
			proxy.Required("name", "Zone name is required"),
		}, nonNegative(map[string]string{
			"radius": "Radius must be a non-negative number",
		})...),
		update: nonNegative(map[string]string{
			"radius": "Radius must be a non-negative number",
		}),
	})...)

	pricing := map[string]string{
		"basePrice":      "Base price must be a non-negative number",
		"pricePerKm":     "Price per km must be a non-negative number",
		"pricePerMinute": "Price per minute must be a non-negative number",
		"minimumFare":    "Minimum fare must be a non-negative number",
		"threshold":      "Threshold must be a non-negative number",
	}
	routes = append(routes, crudByBodyID(resource{
		path:     "/api/services/pricing-rules",
		singular: "Pricing rule",
		plural:   "Pricing rules",
		query:    paged("20", "serviceTypeId", "zoneId", "isActive"),
		create: append([]proxy.Rule{
			proxy.Required("serviceTypeId", "Service type is required"),
		}, nonNegative(pricing)...),
		update: nonNegative(pricing),
	})...)
	return routes
}

type resource struct {
	path     string
	singular string
	plural   string
	query    []proxy.QueryParam
	files    []proxy.FileField
	create   []proxy.Rule
	update   []proxy.Rule
}

// crudByBodyID builds list/create/update/delete routes on one collection
// path, where update and delete take the id from the body or query string.
func crudByBodyID(r resource) []proxy.Route {
	idMsg := r.singular + " ID is required"
	byID := r.path + "/:id"
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           r.path,
			Upstream:       r.path,
			Roles:          admins,
			Query:          r.query,
			DefaultMessage: r.plural + " retrieved successfully",
			DefaultError:   "Failed to fetch " + strings.ToLower(r.plural),
		},
		{
			Method:         http.MethodPost,
			Path:           r.path,
			Upstream:       r.path,
			Roles:          superAdminOnly,
			Body:           proxy.BodyForm,
			Files:          r.files,
			Rules:          r.create,
			DefaultMessage: r.singular + " created successfully",
			DefaultError:   "Failed to create " + strings.ToLower(r.singular),
		},
		{
			Method:         http.MethodPut,
			Path:           r.path,
			Upstream:       byID,
			Roles:          superAdminOnly,
			Body:           proxy.BodyForm,
			Files:          r.files,
			IDField:        "id",
			IDMessage:      idMsg,
			Rules:          r.update,
			DefaultMessage: r.singular + " updated successfully",
			DefaultError:   "Failed to update " + strings.ToLower(r.singular),
		},
		{
			Method:         http.MethodDelete,
			Path:           r.path,
			Upstream:       byID,
			Roles:          superAdminOnly,
			IDField:        "id",
			IDMessage:      idMsg,
			DefaultMessage: r.singular + " deleted successfully",
			DefaultError:   "Failed to delete " + strings.ToLower(r.singular),
		},
	}
}
