// Package routes holds the declarative proxy route tables, one file per
// resource family.
package routes

import (
	"sort"

	"github.com/citylink/admin-gateway/internal/api/proxy"
	"github.com/citylink/admin-gateway/internal/core/domain"
)

// Role allow-lists.
var (
	admins         = []string{domain.RoleSuperAdmin, domain.RoleCityAdmin}
	superAdminOnly = []string{domain.RoleSuperAdmin}
	storeMutators  = []string{domain.RoleStoreOwner, domain.RoleSuperAdmin}
	storeReaders   = []string{domain.RoleStoreOwner, domain.RoleSuperAdmin, domain.RoleCityAdmin}
)

// All returns every proxied route.
func All() []proxy.Route {
	var all []proxy.Route
	for _, group := range [][]proxy.Route{
		placeCategories(),
		places(),
		stores(),
		storeProducts(),
		storeOwners(),
		services(),
		drivers(),
		admin(),
		bookings(),
		reviews(),
		emergencies(),
	} {
		all = append(all, group...)
	}
	return all
}

// paged returns the page/limit pair with the given limit default followed by
// optional filters.
func paged(limit string, filters ...string) []proxy.QueryParam {
	q := []proxy.QueryParam{{Name: "page", Default: "1"}, {Name: "limit", Default: limit}}
	for _, f := range filters {
		q = append(q, proxy.Q(f))
	}
	return q
}

func nonNegative(fields map[string]string) []proxy.Rule {
	rules := make([]proxy.Rule, 0, len(fields))
	for _, f := range sortedKeys(fields) {
		rules = append(rules, proxy.NonNegative(f, fields[f]))
	}
	return rules
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
