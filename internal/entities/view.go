package entities

import "fmt"

// View identifies a navigable screen of the ERP front-end
type View string

const (
	ViewDashboard        View = "DASHBOARD"
	ViewClients          View = "CLIENTS"
	ViewFinance          View = "FINANCE"
	ViewNewOrder         View = "NEW_ORDER"
	ViewSettings         View = "SETTINGS"
	ViewClientProfile    View = "CLIENT_PROFILE"
	ViewRegisterClient   View = "REGISTER_CLIENT"
	ViewRegisterItem     View = "REGISTER_ITEM"
	ViewRegisterCategory View = "REGISTER_CATEGORY"
	ViewAdmin            View = "ADMIN"
	ViewRegisterProfile  View = "REGISTER_PROFILE"
	ViewRegisterUser     View = "REGISTER_USER"
	ViewEditMyProfile    View = "EDIT_MY_PROFILE"
)

// AllViews lists every known view in sidebar order
var AllViews = []View{
	ViewDashboard,
	ViewNewOrder,
	ViewClients,
	ViewFinance,
	ViewRegisterItem,
	ViewRegisterCategory,
	ViewAdmin,
	ViewSettings,
	ViewClientProfile,
	ViewRegisterClient,
	ViewRegisterProfile,
	ViewRegisterUser,
	ViewEditMyProfile,
}

// ParseView converts a view identifier into a View
func ParseView(s string) (View, error) {
	for _, v := range AllViews {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view: %q", s)
}

// BindsClient reports whether the view operates on a selected client
func (v View) BindsClient() bool {
	return v == ViewClientProfile || v == ViewRegisterClient
}

// String returns the view identifier
func (v View) String() string {
	return string(v)
}
