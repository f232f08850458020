package web

import (
	"net/http"
	"reflect"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// requestSchemas names every request body the API accepts.
var requestSchemas = map[string]any{
	"login":           LoginRequest{},
	"order":           CreateOrderRequest{},
	"order-update":    UpdateOrderRequest{},
	"delivery":        CreateDeliveryRequest{},
	"delivery-update": UpdateDeliveryRequest{},
	"delivery-status": AppendStatusRequest{},
	"payment":         RecordPaymentRequest{},
	"service":         CreateServiceRequest{},
	"service-update":  UpdateServiceRequest{},
	"order-status":    CreateOrderStatusRequest{},
	"zone":            CreateZoneRequest{},
	"zone-update":     UpdateZoneRequest{},
	"society":         CreateSocietyRequest{},
	"society-update":  UpdateSocietyRequest{},
	"measure":         CreateMeasureRequest{},
	"measure-update":  UpdateMeasureRequest{},
	"role":            CreateRoleRequest{},
	"role-update":     UpdateRoleRequest{},
	"user":            CreateUserRequest{},
	"user-update":     UpdateUserRequest{},
	"profile-update":  UpdateProfileRequest{},
	"password-change": ChangePasswordRequest{},
	"expense":         CreateExpenseRequest{},
	"expense-update":  UpdateExpenseRequest{},
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// generateSchema reflects v into a self-contained JSON Schema. Decimal
// amounts are described as numeric strings.
func generateSchema(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^-?[0-9]+(\.[0-9]+)?$`,
				}
			}
			return nil
		},
	}
	return reflector.Reflect(v)
}

// listSchemas handles GET /api/schema.
func (h *Handler) listSchemas(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(requestSchemas))
	for name := range requestSchemas {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, names)
}

// schema handles GET /api/schema/{name}.
func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, ok := requestSchemas[name]
	if !ok {
		writeError(w, r, "unknown schema "+name, "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, generateSchema(v))
}
