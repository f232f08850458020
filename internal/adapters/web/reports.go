package web

import "net/http"

// dashboardSummary handles GET /api/reports/summary.
func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.DashboardSummary(r.Context())
	h.writeResult(w, r, summary, err)
}

// salesReport handles GET /api/reports/sales?startDate=&endDate=. Both
// dates are required.
func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.SalesReport(r.Context(), q.Get("startDate"), q.Get("endDate"))
	h.writeResult(w, r, result, err)
}

// expenseReport handles GET /api/reports/expenses?startDate=&endDate=.
func (h *Handler) expenseReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.ExpenseReport(r.Context(), q.Get("startDate"), q.Get("endDate"))
	h.writeResult(w, r, result, err)
}

// invoice handles GET /api/reports/invoice/{userId}?startDate=&endDate=.
func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	q := r.URL.Query()
	inv, err := h.svc.Invoice(r.Context(), userID, q.Get("startDate"), q.Get("endDate"))
	h.writeResult(w, r, inv, err)
}
