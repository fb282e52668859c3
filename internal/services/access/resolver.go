package access

import "github.com/celsoprodesp/Antigravity/internal/entities"

// pageKeyAliases maps screens that are facets of another resource to that resource's key
var pageKeyAliases = map[entities.View]entities.PageKey{
	entities.ViewClientProfile:    entities.PageClients,
	entities.ViewRegisterClient:   entities.PageClients,
	entities.ViewRegisterCategory: entities.PageRegisterItem,
	entities.ViewRegisterProfile:  entities.PageAdmin,
	entities.ViewRegisterUser:     entities.PageAdmin,
}

// ResolvePageKey returns the page key that governs access to view
func ResolvePageKey(view entities.View) entities.PageKey {
	if key, ok := pageKeyAliases[view]; ok {
		return key
	}
	return entities.PageKey(view)
}

// ViewsFor lists the views governed by key, in sidebar order
func ViewsFor(key entities.PageKey) []entities.View {
	var views []entities.View
	for _, v := range entities.AllViews {
		if ResolvePageKey(v) == key {
			views = append(views, v)
		}
	}
	return views
}
