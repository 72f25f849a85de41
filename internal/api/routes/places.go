package routes

import (
	"net/http"

	"github.com/citylink/admin-gateway/internal/api/proxy"
)

func placeCategories() []proxy.Route {
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/places/categories",
			Upstream:       "/api/places/categories",
			Query:          paged("50", "search", "isActive"),
			DefaultMessage: "Categories retrieved successfully",
			DefaultError:   "Failed to fetch categories",
		},
		{
			Method:         http.MethodPost,
			Path:           "/api/places/categories",
			Upstream:       "/api/places/categories",
			Roles:          admins,
			Body:           proxy.BodyForm,
			Files:          []proxy.FileField{{Name: "icon"}},
			Rules:          []proxy.Rule{proxy.Required("name", "Category name is required")},
			DefaultMessage: "Category created successfully",
			DefaultError:   "Failed to create category",
		},
		{
			Method:         http.MethodPut,
			Path:           "/api/places/categories",
			Upstream:       "/api/places/categories/:id",
			Roles:          admins,
			Body:           proxy.BodyForm,
			Files:          []proxy.FileField{{Name: "icon"}},
			IDField:        "id",
			IDMessage:      "Category ID is required",
			DefaultMessage: "Category updated successfully",
			DefaultError:   "Failed to update category",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/places/categories",
			Upstream:       "/api/places/categories/:id",
			Roles:          admins,
			IDField:        "id",
			IDMessage:      "Category ID is required",
			DefaultMessage: "Category deleted successfully",
			DefaultError:   "Failed to delete category",
		},
	}
}

func places() []proxy.Route {
	images := []proxy.FileField{{Name: "images", MaxFiles: proxy.MaxImages, Required: true}}
	return []proxy.Route{
		{
			Method:         http.MethodGet,
			Path:           "/api/places",
			Upstream:       "/api/places",
			Query:          paged("10", "search", "status", "categoryId", "city"),
			DefaultMessage: "Places retrieved successfully",
			DefaultError:   "Failed to fetch places",
		},
		{
			Method:         http.MethodGet,
			Path:           "/api/places/:id",
			Upstream:       "/api/places/:id",
			DefaultMessage: "Place retrieved successfully",
			DefaultError:   "Place not found",
		},
		{
			Method:   http.MethodPost,
			Path:     "/api/places",
			Upstream: "/api/places",
			Roles:    admins,
			Body:     proxy.BodyForm,
			Files:    images,
			Rules: []proxy.Rule{
				proxy.Required("name", "Place name is required"),
				proxy.Required("categoryId", "Category is required"),
			},
			DefaultMessage: "Place created successfully",
			DefaultError:   "Failed to create place",
		},
		{
			Method:         http.MethodPut,
			Path:           "/api/places/:id",
			Upstream:       "/api/places/:id",
			Roles:          admins,
			Body:           proxy.BodyForm,
			Files:          images,
			DefaultMessage: "Place updated successfully",
			DefaultError:   "Failed to update place",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/places/:id",
			Upstream:       "/api/places/:id",
			Roles:          admins,
			DefaultMessage: "Place deleted successfully",
			DefaultError:   "Failed to delete place",
		},
		{
			Method:         http.MethodPost,
			Path:           "/api/places/:id/images",
			Upstream:       "/api/places/:id/images",
			Roles:          admins,
			Body:           proxy.BodyForm,
			Files:          images,
			Fields:         []string{"caption"},
			DefaultMessage: "Images uploaded successfully",
			DefaultError:   "Failed to upload images",
		},
		{
			Method:         http.MethodDelete,
			Path:           "/api/places/:id/images/:imageId",
			Upstream:       "/api/places/:id/images/:imageId",
			Roles:          admins,
			DefaultMessage: "Image deleted successfully",
			DefaultError:   "Failed to delete image",
		},
	}
}
