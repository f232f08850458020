package web

import (
	"net/http"

	"water-admin/internal/app"
	"water-admin/internal/core"
)

// ── Services ─────────────────────────────────────────────────────────────────

// listServices handles GET /api/services?active=true.
func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	services, err := h.svc.ListServices(r.Context(), activeOnly)
	h.writeResult(w, r, services, err)
}

func (h *Handler) getService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s, err := h.svc.GetService(r.Context(), id)
	h.writeResult(w, r, s, err)
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	var body CreateServiceRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateService(r.Context(), body.input())
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateServiceRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateService(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetService(r.Context(), id)
		return err
	})
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteService(r.Context(), id))
}

func (h *Handler) listOrderStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.ListOrderStatuses(r.Context())
	h.writeResult(w, r, statuses, err)
}

func (h *Handler) createOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body CreateOrderStatusRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateOrderStatus(r.Context(), body.StatusTitle, body.StatusPriority)
	h.writeCreatedResult(w, r, id, err)
}

// ── Reference data ───────────────────────────────────────────────────────────

func (h *Handler) listZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.svc.ListZones(r.Context())
	h.writeResult(w, r, zones, err)
}

func (h *Handler) createZone(w http.ResponseWriter, r *http.Request) {
	var body CreateZoneRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateZone(r.Context(), app.CreateZoneRequest{
		Title:    body.Title,
		FromArea: body.FromArea,
		ToArea:   body.ToArea,
	})
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) getZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetZone(r.Context(), id)
	h.writeResult(w, r, v, err)
}

func (h *Handler) updateZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateZoneRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateZone(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetZone(r.Context(), id)
		return err
	})
}

func (h *Handler) deleteZone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteZone(r.Context(), id))
}

// listSocieties handles GET /api/societies?zoneId=.
func (h *Handler) listSocieties(w http.ResponseWriter, r *http.Request) {
	zoneID, err := queryInt(r, "zoneId")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	societies, err := h.svc.ListSocieties(r.Context(), zoneID)
	h.writeResult(w, r, societies, err)
}

func (h *Handler) createSociety(w http.ResponseWriter, r *http.Request) {
	var body CreateSocietyRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateSociety(r.Context(), body.Name, body.ZoneID)
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) getSociety(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetSociety(r.Context(), id)
	h.writeResult(w, r, v, err)
}

func (h *Handler) updateSociety(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateSocietyRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateSociety(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetSociety(r.Context(), id)
		return err
	})
}

func (h *Handler) deleteSociety(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteSociety(r.Context(), id))
}

func (h *Handler) listMeasures(w http.ResponseWriter, r *http.Request) {
	measures, err := h.svc.ListMeasures(r.Context())
	h.writeResult(w, r, measures, err)
}

func (h *Handler) createMeasure(w http.ResponseWriter, r *http.Request) {
	var body CreateMeasureRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateMeasure(r.Context(), body.Title, body.Notes)
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) getMeasure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetMeasure(r.Context(), id)
	h.writeResult(w, r, v, err)
}

func (h *Handler) updateMeasure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateMeasureRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateMeasure(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetMeasure(r.Context(), id)
		return err
	})
}

func (h *Handler) deleteMeasure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteMeasure(r.Context(), id))
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.ListRoles(r.Context())
	h.writeResult(w, r, roles, err)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var body CreateRoleRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateRole(r.Context(), body.RoleName)
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetRole(r.Context(), id)
	h.writeResult(w, r, v, err)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateRoleRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateRole(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetRole(r.Context(), id)
		return err
	})
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteRole(r.Context(), id))
}

// ── Users ────────────────────────────────────────────────────────────────────

// listUsers handles GET /api/users?roleId=&zoneId=&societyId=.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	var f core.UserFilter
	var err error
	if f.RoleID, err = queryInt(r, "roleId"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if f.ZoneID, err = queryInt(r, "zoneId"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if f.SocietyID, err = queryInt(r, "societyId"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	users, err := h.svc.ListUsers(r.Context(), f)
	h.writeResult(w, r, users, err)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.svc.GetUser(r.Context(), id)
	h.writeResult(w, r, u, err)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var body CreateUserRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateUser(r.Context(), body.input())
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateUserRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateUser(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetUser(r.Context(), id)
		return err
	})
}

// updateProfile handles PATCH /api/users/me for the token's user.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var body UpdateProfileRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id := actingUser(r)
	changed, err := h.svc.UpdateProfile(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetUser(r.Context(), id)
		return err
	})
}

// changePassword handles POST /api/users/me/change-password.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var body ChangePasswordRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), actingUser(r), body.CurrentPassword, body.NewPassword); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteUser(r.Context(), id))
}

// ── Expenses ─────────────────────────────────────────────────────────────────

// listExpenses handles GET /api/expenses?startDate=&endDate=.
func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	expenses, err := h.svc.ListExpenses(r.Context(), q.Get("startDate"), q.Get("endDate"))
	h.writeResult(w, r, expenses, err)
}

func (h *Handler) getExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.svc.GetExpense(r.Context(), id)
	h.writeResult(w, r, e, err)
}

// createExpense handles POST /api/expenses. created_by is the caller.
func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var body CreateExpenseRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	id, err := h.svc.CreateExpense(r.Context(), body.input(actingUser(r)))
	h.writeCreatedResult(w, r, id, err)
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body UpdateExpenseRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	changed, err := h.svc.UpdateExpense(r.Context(), id, body.update())
	h.writeUpdated(w, r, changed, err, func() error {
		_, err := h.svc.GetExpense(r.Context(), id)
		return err
	})
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.writeDeleted(w, r, h.svc.DeleteExpense(r.Context(), id))
}
