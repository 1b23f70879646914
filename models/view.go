package models

type View string

const (
	ViewWaiter         View = "waiter"
	ViewAdminLogin     View = "admin_login"
	ViewAdminDashboard View = "admin_dashboard"
)

// Filter narrows the menu shown to the waiter.
type Filter struct {
	Category string `json:"category"`
	Search   string `json:"search"`
}
