package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Identity string `json:"username" form:"username"`
	Secret   string `json:"password" form:"password"`
}

type loginResponse struct {
	Token    string    `json:"token"`
	Identity string    `json:"identity"`
	Role     string    `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Orders ---

type createOrderRequest struct {
	Product  string  `json:"product"  form:"product"  validate:"required"`
	Quantity int     `json:"quantity" form:"quantity" validate:"gte=1"`
	Price    float64 `json:"price"    form:"price"    validate:"gte=0"`
}

type orderLinks struct {
	Self string `json:"self"`
}

type orderResponse struct {
	ID        int64      `json:"id"`
	Product   string     `json:"product"`
	Quantity  int        `json:"quantity"`
	Price     float64    `json:"price"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	Status    string     `json:"status"`
	Links     orderLinks `json:"_links"`
}

type listOrdersResponse struct {
	Data  []orderResponse `json:"data"`
	Total int             `json:"total"`
}

// --- Account ---

type profileResponse struct {
	Identity  string     `json:"identity"`
	Role      string     `json:"role"`
	LoginTime time.Time  `json:"login_time"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type dashboardResponse struct {
	Identity      string `json:"identity"`
	Role          string `json:"role"`
	OrderCount    int    `json:"order_count"`
	UserCount     int    `json:"user_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type metricsResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	TotalOrders    int       `json:"total_orders"`
	ActiveUsers    int       `json:"active_users"`
	ActiveSessions int       `json:"active_sessions"`
}
