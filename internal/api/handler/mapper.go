package handler

import (
	"strconv"

	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createOrderRequest, idempotencyKey string) ports.CreateOrderInput {
	return ports.CreateOrderInput{
		Product:        req.Product,
		Quantity:       req.Quantity,
		Price:          req.Price,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Service result → HTTP response ---

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		Product:   o.Product,
		Quantity:  o.Quantity,
		Price:     o.Price,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt.UTC(),
		Status:    string(o.Status),
		Links:     orderLinks{Self: "/orders/" + strconv.FormatInt(o.ID, 10)},
	}
}

func toListResponse(orders []domain.Order) listOrdersResponse {
	items := make([]orderResponse, len(orders))
	for i := range orders {
		items[i] = toOrderResponse(&orders[i])
	}
	return listOrdersResponse{Data: items, Total: len(items)}
}

func toProfileResponse(s *domain.Session) profileResponse {
	resp := profileResponse{
		Identity:  s.Identity,
		Role:      string(s.Role),
		LoginTime: s.IssuedAt.UTC(),
	}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	return resp
}

func toDashboardResponse(v *ports.DashboardView) dashboardResponse {
	return dashboardResponse{
		Identity:      v.Identity,
		Role:          string(v.Role),
		OrderCount:    v.VisibleOrders,
		UserCount:     v.UserCount,
		UptimeSeconds: v.UptimeSeconds,
	}
}

func toMetricsResponse(s *domain.Snapshot) metricsResponse {
	return metricsResponse{
		Status:         "healthy",
		Timestamp:      s.Timestamp.UTC(),
		UptimeSeconds:  s.UptimeSeconds,
		TotalOrders:    s.OrderCount,
		ActiveUsers:    s.UserCount,
		ActiveSessions: s.ActiveSessions,
	}
}
