package web

import (
	"net/http"

	"water-admin/internal/app"
	"water-admin/internal/core"
)

// listOrders handles GET /api/orders?userId=&startDate=&endDate=.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt(r, "userId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	orders, err := h.svc.ListOrders(r.Context(), app.OrderQuery{
		UserID:    userID,
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	})
	h.writeResult(w, r, orders, err)
}

// createOrder handles POST /api/orders.
// Body: { user_id, service_id, quantity, discount?, notes? }
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body CreateOrderRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateOrder(r.Context(), body.input())
	h.writeCreatedResult(w, r, id, err)
}

// listCustomerOrders handles GET /api/orders/user/{userId}.
func (h *Handler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	orders, err := h.svc.ListCustomerOrders(r.Context(), userID)
	h.writeResult(w, r, orders, err)
}

// getOrder handles GET /api/orders/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	h.writeResult(w, r, order, err)
}

// updateOrder handles PATCH /api/orders/{id}. Totals are recomputed from
// the current service price.
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateOrderRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateOrder(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetOrder(r.Context(), id)
		return err
	})
}

// deleteOrder handles DELETE /api/orders/{id}.
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteOrder(r.Context(), id))
}

// ── Deliveries ───────────────────────────────────────────────────────────────

// listDeliveries handles GET /api/deliveries?orderId=&deliveryBoyId=&startDate=&endDate=.
func (h *Handler) listDeliveries(w http.ResponseWriter, r *http.Request) {
	orderID, err := queryInt(r, "orderId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	boyID, err := queryInt(r, "deliveryBoyId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	deliveries, err := h.svc.ListDeliveries(r.Context(), app.DeliveryQuery{
		OrderID:       orderID,
		DeliveryBoyID: boyID,
		StartDate:     q.Get("startDate"),
		EndDate:       q.Get("endDate"),
	})
	h.writeResult(w, r, deliveries, err)
}

// createDelivery handles POST /api/deliveries. The initial status-history row
// is attributed to the caller.
func (h *Handler) createDelivery(w http.ResponseWriter, r *http.Request) {
	var body CreateDeliveryRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateDelivery(r.Context(), body.input(actingUser(r)))
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) listOrderDeliveries(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}
	deliveries, err := h.svc.ListOrderDeliveries(r.Context(), orderID)
	h.writeResult(w, r, deliveries, err)
}

func (h *Handler) listDeliveryBoyDeliveries(w http.ResponseWriter, r *http.Request) {
	boyID, ok := pathID(w, r, "deliveryBoyId")
	if !ok {
		return
	}
	deliveries, err := h.svc.ListDeliveryBoyDeliveries(r.Context(), boyID)
	h.writeResult(w, r, deliveries, err)
}

func (h *Handler) getDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := h.svc.GetDelivery(r.Context(), id)
	h.writeResult(w, r, d, err)
}

// updateDelivery handles PATCH /api/deliveries/{id}. Status changes go
// through POST /api/deliveries/{id}/status instead.
func (h *Handler) updateDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateDeliveryRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateDelivery(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetDelivery(r.Context(), id)
		return err
	})
}

func (h *Handler) deliveryHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.svc.DeliveryHistory(r.Context(), id)
	h.writeResult(w, r, entries, err)
}

// appendDeliveryStatus handles POST /api/deliveries/{id}/status.
// Body: { status_id }
func (h *Handler) appendDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body AppendStatusRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.StatusID <= 0 {
		h.writeServiceError(w, r, core.InvalidArgumentf("status_id is required"))
		return
	}
	entryID, err := h.svc.AppendDeliveryStatus(r.Context(), id, body.StatusID, actingUser(r))
	h.writeCreatedResult(w, r, entryID, err)
}

// ── Payments ─────────────────────────────────────────────────────────────────

// listPayments handles GET /api/payments?buyerId=&startDate=&endDate=.
func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	buyerID, err := queryInt(r, "buyerId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	payments, err := h.svc.ListPayments(r.Context(), app.PaymentQuery{
		BuyerID:   buyerID,
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	})
	h.writeResult(w, r, payments, err)
}

// recordPayment handles POST /api/payments. payment_received_by is the caller.
// Body: { buyer_id, payment_mode, payment_received, payment_due, notes? }
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var body RecordPaymentRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.RecordPayment(r.Context(), body.input(actingUser(r)))
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) listBuyerPayments(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := pathID(w, r, "buyerId")
	if !ok {
		return
	}
	payments, err := h.svc.ListBuyerPayments(r.Context(), buyerID)
	h.writeResult(w, r, payments, err)
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetPayment(r.Context(), id)
	h.writeResult(w, r, p, err)
}
