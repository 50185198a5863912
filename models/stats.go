package models

// AdminStats is the admin dashboard count response
type AdminStats struct {
	Students int64 `json:"students"`
	Alumni   int64 `json:"alumni"`
	Pending  int64 `json:"pending"`
}

// StatCard is a single labelled counter on the dashboard
type StatCard struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// DashboardStats is the role-shaped stat card response
type DashboardStats struct {
	Card1 StatCard `json:"card1"`
	Card2 StatCard `json:"card2"`
	Card3 StatCard `json:"card3"`
}
