package main

import (
	"sort"

	"github.com/citylink/admin-gateway/internal/dashboard"
)

// resources are the dashboard pages adminctl can drive.
var resources = map[string]dashboard.Resource{
	"categories":    {Path: "/api/places/categories", IDInBody: true, Limit: 50, SearchParam: "search", StatusParam: "isActive"},
	"places":        {Path: "/api/places", Limit: 10, SearchParam: "search", StatusParam: "status", CategoryParam: "categoryId"},
	"stores":        {Path: "/api/stores", Limit: 10, SearchParam: "search", StatusParam: "status", CategoryParam: "type"},
	"store-owners":  {Path: "/api/store-owners", Limit: 10, SearchParam: "search", StatusParam: "status"},
	"drivers":       {Path: "/api/drivers", Limit: 10, SearchParam: "search", StatusParam: "status", CategoryParam: "vehicleType"},
	"service-types": {Path: "/api/services/types", IDInBody: true, Limit: 20, SearchParam: "search", StatusParam: "isActive"},
	"service-zones": {Path: "/api/services/zones", IDInBody: true, Limit: 20, SearchParam: "search", StatusParam: "isActive", CategoryParam: "serviceTypeId"},
	"pricing-rules": {Path: "/api/services/pricing-rules", IDInBody: true, Limit: 20, StatusParam: "isActive", CategoryParam: "serviceTypeId"},
	"bookings":      {Path: "/api/bookings", Limit: 10, StatusParam: "status", CategoryParam: "serviceType"},
	"reviews":       {Path: "/api/reviews", Limit: 10, CategoryParam: "rating"},
	"emergencies":   {Path: "/api/emergency/requests", Limit: 20, StatusParam: "status", CategoryParam: "type"},
}

func resourceNames() []string {
	names := make([]string, 0, len(resources))
	for n := range resources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
