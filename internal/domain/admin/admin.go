// Package admin holds the fixed figures shown on the admin dashboard and the
// sample orders offered for export. None of it is computed.
package admin

import "github.com/shopspring/decimal"

// Order is a placed order as listed in the admin panel.
type Order struct {
	ID       int             `json:"id"`
	Customer string          `json:"customer"`
	Items    int             `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Status   string          `json:"status"`
	Date     string          `json:"date"`
}

// DayStats is one bar pair of the weekly chart.
type DayStats struct {
	Name    string `json:"name"`
	Sales   int    `json:"sales"`
	Impulse int    `json:"impulse"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	ImpulseBuys        int             `json:"impulseBuys"`
	DupeAcceptanceRate int             `json:"dupeAcceptanceRate"` // percent
	MoneySavedForUsers decimal.Decimal `json:"moneySavedForUsers"`
	SalesVsImpulseWeek []DayStats      `json:"salesVsImpulse"`
}

// Orders returns the sample orders.
func Orders() []Order {
	return []Order{
		{ID: 1001, Customer: "John Doe", Items: 3, Total: decimal.RequireFromString("124.00"), Status: "Paid", Date: "2023-10-25"},
		{ID: 1002, Customer: "Jane Smith", Items: 1, Total: decimal.RequireFromString("45.00"), Status: "Shipped", Date: "2023-10-26"},
		{ID: 1003, Customer: "Bob Johnson", Items: 5, Total: decimal.RequireFromString("299.99"), Status: "Processing", Date: "2023-10-26"},
		{ID: 1004, Customer: "Alice Cooper", Items: 2, Total: decimal.RequireFromString("89.50"), Status: "Delivered", Date: "2023-10-24"},
	}
}

// GetDashboard returns the dashboard figures.
func GetDashboard() Dashboard {
	return Dashboard{
		TotalRevenue:       decimal.RequireFromString("12450.00"),
		ImpulseBuys:        843,
		DupeAcceptanceRate: 34,
		MoneySavedForUsers: decimal.RequireFromString("4200"),
		SalesVsImpulseWeek: []DayStats{
			{Name: "Mon", Sales: 400, Impulse: 240},
			{Name: "Tue", Sales: 300, Impulse: 139},
			{Name: "Wed", Sales: 200, Impulse: 980},
			{Name: "Thu", Sales: 278, Impulse: 390},
			{Name: "Fri", Sales: 189, Impulse: 480},
			{Name: "Sat", Sales: 239, Impulse: 380},
			{Name: "Sun", Sales: 349, Impulse: 430},
		},
	}
}
