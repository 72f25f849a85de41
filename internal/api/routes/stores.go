package routes

import (
	"net/http"

	"github.com/citylink/admin-gateway/internal/api/proxy"
)

// StoreTypes is the fixed store type enumeration.
var StoreTypes = []string{"RESTAURANT", "GROCERY", "PHARMACY", "BAKERY", "CAFE", "CONVENIENCE", "OTHER"}

// StoreStatusActions are the moderation actions accepted by the status route.
var StoreStatusActions = []string{"approve", "reject", "suspend", "activate"}

func stores() []proxy.Route {
	logo := []proxy.FileField{{Name: "logo"}}
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/stores",
			Upstream:       "/api/stores",
			Roles:          admins,
			Query:          paged("10", "search", "status", "type", "city"),
			DefaultMessage: "Stores retrieved successfully",
			DefaultError:   "Failed to fetch stores",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/stores/:id",
			Upstream:       "/api/stores/:id",
			Roles:          storeReaders,
			DefaultMessage: "Store retrieved successfully",
			DefaultError:   "Store not found",
		},
		{
			Method:   http.MethodPost,
			Path:     "/api/stores",
			Upstream: "/api/stores",
			Roles:    admins,
			Body:     proxy.BodyForm,
			Files:    logo,
			Rules: []proxy.Rule{
				proxy.Required("name", "Store name is required"),
				proxy.Required("type", "Store type is required"),
				proxy.OneOf("type", StoreTypes, "Invalid store type"),
				proxy.Email("email", "Invalid email address"),
			},
			DefaultMessage: "Store created successfully",
			DefaultError:   "Failed to create store",
		},
		{
			Method:   http.MethodPut,
			Path:     "/api/stores/:id",
			Upstream: "/api/stores/:id",
			Roles:    storeReaders,
			Body:     proxy.BodyForm,
			Files:    logo,
			Rules: []proxy.Rule{
				proxy.OneOf("type", StoreTypes, "Invalid store type"),
				proxy.Email("email", "Invalid email address"),
			},
			DefaultMessage: "Store updated successfully",
			DefaultError:   "Failed to update store",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/stores/:id",
			Upstream:       "/api/stores/:id",
			Roles:          superAdminOnly,
			DefaultMessage: "Store deleted successfully",
			DefaultError:   "Failed to delete store",
		},
		{
			Method:   http.MethodPut,
			Path:     "/api/stores/:id/status",
			Upstream: "/api/stores/:id/status",
			Roles:    admins,
			Body:     proxy.BodyForm,
			Rules: []proxy.Rule{
				proxy.Required("action", "Status action is required"),
				proxy.OneOf("action", StoreStatusActions, "Invalid status action"),
			},
			DefaultMessage: "Store status updated successfully",
			DefaultError:   "Failed to update store status",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/stores/:id/hours",
			Upstream:       "/api/stores/:id/hours",
			Roles:          storeReaders,
			DefaultMessage: "Store hours retrieved successfully",
			DefaultError:   "Failed to fetch store hours",
		},
		{
			Method:   http.MethodPut,
			Path:     "/api/stores/:id/hours",
			Upstream: "/api/stores/:id/hours",
			Roles:    storeMutators,
			Body:     proxy.BodyForm,
			Rules: []proxy.Rule{
				proxy.Required("dayOfWeek", "Day of week is required"),
				proxy.IntRange("dayOfWeek", 0, 6, "Day of week must be between 0 and 6"),
			},
			DefaultMessage: "Store hours updated successfully",
			DefaultError:   "Failed to update store hours",
		},
	}
}

func storeProducts() []proxy.Route {
	image := []proxy.FileField{{Name: "image"}}
	price := proxy.NonNegative("price", "Price must be a non-negative number")
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/stores/:id/products",
			Upstream:       "/api/stores/:id/products",
			Roles:          storeReaders,
			Query:          paged("20", "search", "categoryId", "isAvailable"),
			DefaultMessage: "Products retrieved successfully",
			DefaultError:   "Failed to fetch products",
		},
		{
			Method:   http.MethodPost,
			Path:     "/api/stores/:id/products",
			Upstream: "/api/stores/:id/products",
			Roles:    storeMutators,
			Body:     proxy.BodyForm,
			Files:    image,
			Rules: []proxy.Rule{
				proxy.Required("name", "Product name is required"),
				proxy.Required("price", "Price is required"),
				price,
			},
			DefaultMessage: "Product created successfully",
			DefaultError:   "Failed to create product",
		},
		{
			Method:         http.MethodPut,
			Path:           "/api/stores/:id/products/:productId",
			Upstream:       "/api/stores/:id/products/:productId",
			Roles:          storeMutators,
			Body:           proxy.BodyForm,
			Files:          image,
			Rules:          []proxy.Rule{price},
			DefaultMessage: "Product updated successfully",
			DefaultError:   "Failed to update product",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/stores/:id/products/:productId",
			Upstream:       "/api/stores/:id/products/:productId",
			Roles:          storeMutators,
			DefaultMessage: "Product deleted successfully",
			DefaultError:   "Failed to delete product",
		},
	}
}

func storeOwners() []proxy.Route {
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/store-owners",
			Upstream:       "/api/store-owners",
			Roles:          admins,
			Query:          paged("10", "search", "status", "isApproved"),
			DefaultMessage: "Store owners retrieved successfully",
			DefaultError:   "Failed to fetch store owners",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/store-owners/:id",
			Upstream:       "/api/store-owners/:id",
			Roles:          admins,
			DefaultMessage: "Store owner retrieved successfully",
			DefaultError:   "Store owner not found",
		},
		{
			Method:         http.MethodPut,
			Path:           "/api/store-owners/:id",
			Upstream:       "/api/store-owners/:id",
			Roles:          admins,
			Body:           proxy.BodyForm,
			Rules:          []proxy.Rule{proxy.Email("email", "Invalid email address")},
			DefaultMessage: "Store owner updated successfully",
			DefaultError:   "Failed to update store owner",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/store-owners/:id",
			Upstream:       "/api/store-owners/:id",
			Roles:          superAdminOnly,
			DefaultMessage: "Store owner deleted successfully",
			DefaultError:   "Failed to delete store owner",
		},
	}
}
