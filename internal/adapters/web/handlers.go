package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"water-admin/internal/app"
	"water-admin/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// Options configures NewHandler.
type Options struct {
	AllowedOrigins string
	JWTSecret      string
	JWTTTL         time.Duration
	AdminRole      string // role required for administrative writes
	Logger         logrus.FieldLogger
}

// Handler holds the ApplicationService and the settings the HTTP layer needs.
type Handler struct {
	svc       app.ApplicationService
	log       logrus.FieldLogger
	jwtSecret string
	jwtTTL    time.Duration
	adminRole string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.JWTTTL <= 0 {
		opts.JWTTTL = time.Hour
	}
	if opts.AdminRole == "" {
		opts.AdminRole = "Admin"
	}

	h := &Handler{
		svc:       svc,
		log:       log,
		jwtSecret: opts.JWTSecret,
		jwtTTL:    opts.JWTTTL,
		adminRole: opts.AdminRole,
	}
	admin := h.RequireRole(h.adminRole)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(opts.AllowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Get("/api/schema", h.listSchemas)
	r.Get("/api/schema/{name}", h.schema)

	// ── Protected API routes ─────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/auth/me", h.me)
		r.With(admin).Post("/admin/role-cache/refresh", h.refreshRoleCache)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.createOrder)
			r.Get("/user/{userId}", h.listCustomerOrders)
			r.Get("/{id}", h.getOrder)
			r.Patch("/{id}", h.updateOrder)
			r.Delete("/{id}", h.deleteOrder)
		})

		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", h.listDeliveries)
			r.Post("/", h.createDelivery)
			r.Get("/by-order/{orderId}", h.listOrderDeliveries)
			r.Get("/by-delivery-boy/{deliveryBoyId}", h.listDeliveryBoyDeliveries)
			r.Get("/{id}", h.getDelivery)
			r.Patch("/{id}", h.updateDelivery)
			r.Get("/{id}/history", h.deliveryHistory)
			r.Post("/{id}/status", h.appendDeliveryStatus)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.listPayments)
			r.Post("/", h.recordPayment)
			r.Get("/by-buyer/{buyerId}", h.listBuyerPayments)
			r.Get("/{id}", h.getPayment)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", h.dashboardSummary)
			r.Get("/sales", h.salesReport)
			r.Get("/expenses", h.expenseReport)
			r.Get("/invoice/{userId}", h.invoice)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.listServices)
			r.Get("/{id}", h.getService)
			r.With(admin).Post("/", h.createService)
			r.With(admin).Patch("/{id}", h.updateService)
			r.With(admin).Delete("/{id}", h.deleteService)
		})

		r.Route("/order-statuses", func(r chi.Router) {
			r.Get("/", h.listOrderStatuses)
			r.With(admin).Post("/", h.createOrderStatus)
		})

		r.Route("/zones", func(r chi.Router) {
			r.Get("/", h.listZones)
			r.Get("/{id}", h.getZone)
			r.With(admin).Post("/", h.createZone)
			r.With(admin).Patch("/{id}", h.updateZone)
			r.With(admin).Delete("/{id}", h.deleteZone)
		})

		r.Route("/societies", func(r chi.Router) {
			r.Get("/", h.listSocieties)
			r.Get("/{id}", h.getSociety)
			r.With(admin).Post("/", h.createSociety)
			r.With(admin).Patch("/{id}", h.updateSociety)
			r.With(admin).Delete("/{id}", h.deleteSociety)
		})

		r.Route("/measures", func(r chi.Router) {
			r.Use(admin)
			r.Get("/", h.listMeasures)
			r.Get("/{id}", h.getMeasure)
			r.Post("/", h.createMeasure)
			r.Patch("/{id}", h.updateMeasure)
			r.Delete("/{id}", h.deleteMeasure)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(admin)
			r.Get("/", h.listRoles)
			r.Get("/{id}", h.getRole)
			r.Post("/", h.createRole)
			r.Patch("/{id}", h.updateRole)
			r.Delete("/{id}", h.deleteRole)
		})

		r.Route("/users", func(r chi.Router) {
			r.Patch("/me", h.updateProfile)
			r.Post("/me/change-password", h.changePassword)
			r.With(admin).Get("/", h.listUsers)
			r.With(admin).Get("/{id}", h.getUser)
			r.With(admin).Post("/", h.createUser)
			r.With(admin).Patch("/{id}", h.updateUser)
			r.With(admin).Delete("/{id}", h.deleteUser)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.listExpenses)
			r.Get("/{id}", h.getExpense)
			r.With(admin).Post("/", h.createExpense)
			r.With(admin).Patch("/{id}", h.updateExpense)
			r.With(admin).Delete("/{id}", h.deleteExpense)
		})
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "INVALID_ARGUMENT", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses a positive integer URL parameter, writing 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name, "INVALID_ARGUMENT", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, core.InvalidArgumentf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// actingUser returns the authenticated caller's user id.
func actingUser(r *http.Request) int {
	if c := authFromContext(r.Context()); c != nil {
		return c.UserID
	}
	return 0
}

// writeUpdated answers an update call. When nothing changed, get decides
// between 404 for an unknown id and {"updated": false}.
func (h *Handler) writeUpdated(w http.ResponseWriter, r *http.Request, changed bool, err error, get func() error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !changed {
		if err := get(); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}
	writeJSON(w, map[string]bool{"updated": changed})
}

// writeResult writes v, or the classified error.
func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, v)
}

// writeCreatedResult writes 201 {"id": id}, or the classified error.
func (h *Handler) writeCreatedResult(w http.ResponseWriter, r *http.Request, id int, err error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, id)
}

// writeDeleted writes 204, or the classified error.
func (h *Handler) writeDeleted(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
