package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"water-admin/internal/app"
	"water-admin/internal/core"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const testSecret = "test-secret"

// stubService embeds the interface so tests only implement what they call.
// Any other method panics, which Recoverer turns into a 500.
type stubService struct {
	app.ApplicationService

	adminRoleID int
	created     core.CreateOrderInput
	createdDel  core.CreateDeliveryInput
	payment     core.RecordPaymentInput
	orderErr    error
	updated     bool
	orders      map[int]*core.Order
	zones       map[int]*core.Zone
	roles       map[int]*core.Role
	deletedRole int
	profileUser int
	profile     core.ProfileUpdate
	passwordFor int
}

func (s *stubService) Login(ctx context.Context, phone, password string) (*app.UserSession, error) {
	if phone == "9000000001" && password == "pw" {
		return &app.UserSession{UserID: 1, RoleID: 1, RoleName: "Admin", Phone: phone}, nil
	}
	return nil, core.ErrInvalidCredentials
}

func (s *stubService) HasRole(ctx context.Context, roleID int, roleName string) (bool, error) {
	return roleID == s.adminRoleID, nil
}

func (s *stubService) CreateOrder(ctx context.Context, in core.CreateOrderInput) (int, error) {
	s.created = in
	if s.orderErr != nil {
		return 0, s.orderErr
	}
	return 7, nil
}

func (s *stubService) GetOrder(ctx context.Context, orderID int) (*core.Order, error) {
	if o, ok := s.orders[orderID]; ok {
		return o, nil
	}
	return nil, core.NotFoundf("order %d not found", orderID)
}

func (s *stubService) UpdateOrder(ctx context.Context, orderID int, u core.OrderUpdate) (bool, error) {
	return s.updated, nil
}

func (s *stubService) CreateDelivery(ctx context.Context, in core.CreateDeliveryInput) (int, error) {
	s.createdDel = in
	return 11, nil
}

func (s *stubService) RecordPayment(ctx context.Context, in core.RecordPaymentInput) (int, error) {
	s.payment = in
	return 3, nil
}

func (s *stubService) CreateZone(ctx context.Context, req app.CreateZoneRequest) (int, error) {
	return 5, nil
}

func (s *stubService) GetZone(ctx context.Context, zoneID int) (*core.Zone, error) {
	if z, ok := s.zones[zoneID]; ok {
		return z, nil
	}
	return nil, core.NotFoundf("zone %d not found", zoneID)
}

func (s *stubService) UpdateZone(ctx context.Context, zoneID int, u core.ZoneUpdate) (bool, error) {
	return s.updated, nil
}

func (s *stubService) GetRole(ctx context.Context, roleID int) (*core.Role, error) {
	if r, ok := s.roles[roleID]; ok {
		return r, nil
	}
	return nil, core.NotFoundf("role %d not found", roleID)
}

func (s *stubService) UpdateRole(ctx context.Context, roleID int, u core.RoleUpdate) (bool, error) {
	return s.updated, nil
}

func (s *stubService) DeleteRole(ctx context.Context, roleID int) error {
	if _, ok := s.roles[roleID]; !ok {
		return core.NotFoundf("role %d not found", roleID)
	}
	s.deletedRole = roleID
	return nil
}

func (s *stubService) ListUsers(ctx context.Context, f core.UserFilter) ([]core.User, error) {
	return []core.User{{ID: 9, FirstName: "Ravi"}}, nil
}

func (s *stubService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return &core.User{ID: userID}, nil
}

func (s *stubService) UpdateProfile(ctx context.Context, userID int, p core.ProfileUpdate) (bool, error) {
	s.profileUser = userID
	s.profile = p
	return true, nil
}

func (s *stubService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	s.passwordFor = userID
	if current != "old-secret" {
		return core.InvalidArgumentf("incorrect current password")
	}
	return nil
}

func (s *stubService) SalesReport(ctx context.Context, startDate, endDate string) (*app.SalesReportResult, error) {
	if _, err := core.RequiredDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	return &app.SalesReportResult{StartDate: startDate, EndDate: endDate}, nil
}

func newTestServer(t *testing.T, svc *stubService) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := httptest.NewServer(NewHandler(svc, Options{JWTSecret: testSecret, Logger: log}))
	t.Cleanup(srv.Close)
	return srv
}

func tokenFor(t *testing.T, userID, roleID int) string {
	t.Helper()
	tok, err := issueToken(testSecret, time.Hour, &app.UserSession{UserID: userID, RoleID: roleID})
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	return tok
}

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubService{})
	resp, body := do(t, srv, http.MethodGet, "/api/health", "", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health: got %d %v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRequireAuth(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	otherKey, _ := issueToken("another-secret", time.Hour, &app.UserSession{UserID: 1})

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusForbidden},
		{"expired", expired, http.StatusForbidden},
		{"wrong key", otherKey, http.StatusForbidden},
	}
	for _, tt := range tests {
		resp, body := do(t, srv, http.MethodGet, "/api/orders/1", tt.token, "")
		if resp.StatusCode != tt.status {
			t.Errorf("%s: expected %d, got %d (%v)", tt.name, tt.status, resp.StatusCode, body)
		}
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	resp, body := do(t, srv, http.MethodPost, "/api/auth/login", "", `{"phone":"9000000001","password":"pw"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %v", resp.StatusCode, body)
	}
	tok, _ := body["token"].(string)
	claims, err := parseToken(testSecret, tok)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != 1 || claims.RoleID != 1 {
		t.Errorf("claims: got %+v", claims)
	}

	resp, body = do(t, srv, http.MethodPost, "/api/auth/login", "", `{"phone":"9000000001","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password: expected 401, got %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/auth/login", "", `{"phone":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing fields: expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder(t *testing.T) {
	svc := &stubService{}
	srv := newTestServer(t, svc)
	tok := tokenFor(t, 2, 2)

	resp, body := do(t, srv, http.MethodPost, "/api/orders", tok,
		`{"user_id":2,"service_id":1,"quantity":3,"discount":"5.50","notes":"gate 2"}`)
	if resp.StatusCode != http.StatusCreated || body["id"] != float64(7) {
		t.Fatalf("create order: got %d %v", resp.StatusCode, body)
	}
	if svc.created.Quantity != 3 || svc.created.Discount.String() != "5.5" || svc.created.Notes != "gate 2" {
		t.Errorf("input not forwarded: %+v", svc.created)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/orders", tok, `{"user_id":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed JSON: expected 400, got %d", resp.StatusCode)
	}
}

func TestActingUserComesFromToken(t *testing.T) {
	svc := &stubService{}
	srv := newTestServer(t, svc)
	tok := tokenFor(t, 42, 3)

	resp, _ := do(t, srv, http.MethodPost, "/api/deliveries", tok,
		`{"order_id":1,"delivery_boy_id":3,"delivery_date":"2026-03-15","qty_ordered":2,"total_amount":100}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create delivery: got %d", resp.StatusCode)
	}
	if svc.createdDel.ActingUserID != 42 {
		t.Errorf("delivery acting user: want 42, got %d", svc.createdDel.ActingUserID)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/payments", tok,
		`{"buyer_id":2,"payment_mode":"gpay","payment_received":"150","payment_due":"350"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record payment: got %d", resp.StatusCode)
	}
	if svc.payment.ReceivedBy != 42 || svc.payment.Mode != "gpay" || svc.payment.DueSnapshot.String() != "350" {
		t.Errorf("payment input: %+v", svc.payment)
	}
}

func TestErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{core.InvalidArgumentf("quantity must be a positive integer"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{core.Constraintf(nil, "referenced service or user does not exist"), http.StatusBadRequest, "CONSTRAINT"},
		{core.NotFoundf("service 9 not found"), http.StatusNotFound, "NOT_FOUND"},
		{core.Conflictf(nil, "duplicate value"), http.StatusConflict, "CONFLICT"},
		{core.Unsupportedf(nil, "soft delete is not supported"), http.StatusNotImplemented, "UNSUPPORTED"},
		{core.Configurationf("initial status missing"), http.StatusInternalServerError, "CONFIGURATION"},
		{errors.New("connection reset by peer"), http.StatusInternalServerError, "UNEXPECTED"},
	}

	for _, tt := range tests {
		svc := &stubService{orderErr: tt.err}
		srv := newTestServer(t, svc)
		resp, body := do(t, srv, http.MethodPost, "/api/orders", tokenFor(t, 1, 1), `{"user_id":1,"service_id":1,"quantity":1}`)
		if resp.StatusCode != tt.status || body["code"] != tt.code {
			t.Errorf("%v: expected %d %s, got %d %v", tt.err, tt.status, tt.code, resp.StatusCode, body)
		}
		if tt.status == http.StatusInternalServerError && body["error"] != "internal server error" {
			t.Errorf("%v: 500 body leaked %q", tt.err, body["error"])
		}
		if body["request_id"] == "" || body["request_id"] == nil {
			t.Errorf("%v: missing request_id", tt.err)
		}
	}
}

func TestUpdateReturns404ForUnknownID(t *testing.T) {
	svc := &stubService{orders: map[int]*core.Order{1: {ID: 1}}}
	srv := newTestServer(t, svc)
	tok := tokenFor(t, 1, 1)

	resp, _ := do(t, srv, http.MethodPatch, "/api/orders/99", tok, `{"notes":"x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", resp.StatusCode)
	}

	resp, body := do(t, srv, http.MethodPatch, "/api/orders/1", tok, `{}`)
	if resp.StatusCode != http.StatusOK || body["updated"] != false {
		t.Errorf("empty update: expected 200 updated=false, got %d %v", resp.StatusCode, body)
	}

	svc.updated = true
	resp, body = do(t, srv, http.MethodPatch, "/api/orders/1", tok, `{"notes":"x"}`)
	if resp.StatusCode != http.StatusOK || body["updated"] != true {
		t.Errorf("update: expected 200 updated=true, got %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/orders/abc", tok, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("non-numeric id: expected 400, got %d", resp.StatusCode)
	}
}

func TestRequireRole(t *testing.T) {
	svc := &stubService{adminRoleID: 1}
	srv := newTestServer(t, svc)

	resp, _ := do(t, srv, http.MethodPost, "/api/zones", tokenFor(t, 2, 2), `{"title":"North"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("non-admin: expected 403, got %d", resp.StatusCode)
	}
	resp, body := do(t, srv, http.MethodPost, "/api/zones", tokenFor(t, 1, 1), `{"title":"North"}`)
	if resp.StatusCode != http.StatusCreated || body["id"] != float64(5) {
		t.Errorf("admin: expected 201, got %d %v", resp.StatusCode, body)
	}

	customer := tokenFor(t, 9, 2)
	for _, c := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/users", ""},
		{http.MethodGet, "/api/users/9", ""},
		{http.MethodPatch, "/api/zones/1", `{"title":"South"}`},
		{http.MethodPatch, "/api/roles/2", `{"rolename":"Buyer"}`},
		{http.MethodDelete, "/api/roles/2", ""},
	} {
		resp, _ := do(t, srv, c.method, c.path, customer, c.body)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("customer %s %s: expected 403, got %d", c.method, c.path, resp.StatusCode)
		}
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/users", tokenFor(t, 1, 1), "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin list users: expected 200, got %d", resp.StatusCode)
	}
}

func TestReferenceGetAndUpdate(t *testing.T) {
	svc := &stubService{
		adminRoleID: 1,
		zones:       map[int]*core.Zone{1: {ID: 1, Title: "North"}},
		roles:       map[int]*core.Role{2: {ID: 2, Name: "Customer"}},
	}
	srv := newTestServer(t, svc)
	admin := tokenFor(t, 1, 1)

	resp, body := do(t, srv, http.MethodGet, "/api/zones/1", tokenFor(t, 9, 2), "")
	if resp.StatusCode != http.StatusOK || body["title"] != "North" {
		t.Errorf("get zone: got %d %v", resp.StatusCode, body)
	}
	resp, _ = do(t, srv, http.MethodGet, "/api/zones/4", admin, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown zone: expected 404, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodPatch, "/api/zones/4", admin, `{"title":"South"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("patch unknown zone: expected 404, got %d", resp.StatusCode)
	}
	resp, body = do(t, srv, http.MethodGet, "/api/roles/2", admin, "")
	if resp.StatusCode != http.StatusOK || body["rolename"] != "Customer" {
		t.Errorf("get role: got %d %v", resp.StatusCode, body)
	}

	svc.updated = true
	resp, body = do(t, srv, http.MethodPatch, "/api/zones/1", admin, `{"title":"South"}`)
	if resp.StatusCode != http.StatusOK || body["updated"] != true {
		t.Errorf("patch zone: got %d %v", resp.StatusCode, body)
	}
	resp, body = do(t, srv, http.MethodPatch, "/api/roles/2", admin, `{"rolename":"Buyer"}`)
	if resp.StatusCode != http.StatusOK || body["updated"] != true {
		t.Errorf("patch role: got %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, srv, http.MethodDelete, "/api/roles/2", admin, "")
	if resp.StatusCode != http.StatusNoContent || svc.deletedRole != 2 {
		t.Errorf("delete role: got %d, deleted %d", resp.StatusCode, svc.deletedRole)
	}
	resp, _ = do(t, srv, http.MethodDelete, "/api/roles/8", admin, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete unknown role: expected 404, got %d", resp.StatusCode)
	}
}

func TestSelfServiceUsesTokenUser(t *testing.T) {
	svc := &stubService{adminRoleID: 1}
	srv := newTestServer(t, svc)
	tok := tokenFor(t, 9, 2)

	resp, body := do(t, srv, http.MethodPatch, "/api/users/me", tok, `{"city":"Pune"}`)
	if resp.StatusCode != http.StatusOK || body["updated"] != true {
		t.Fatalf("update profile: got %d %v", resp.StatusCode, body)
	}
	if svc.profileUser != 9 || svc.profile.City == nil || *svc.profile.City != "Pune" {
		t.Errorf("profile update went to user %d with %+v", svc.profileUser, svc.profile)
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/users/me/change-password", tok,
		`{"current_password":"old-secret","new_password":"new-secret"}`)
	if resp.StatusCode != http.StatusNoContent || svc.passwordFor != 9 {
		t.Errorf("change password: got %d for user %d", resp.StatusCode, svc.passwordFor)
	}
	resp, _ = do(t, srv, http.MethodPost, "/api/users/me/change-password", tok,
		`{"current_password":"guess","new_password":"new-secret"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("wrong current password: expected 400, got %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodPatch, "/api/users/me", "", `{"city":"Pune"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", resp.StatusCode)
	}
}

func TestSalesReportRequiresDates(t *testing.T) {
	srv := newTestServer(t, &stubService{})
	tok := tokenFor(t, 1, 1)

	resp, body := do(t, srv, http.MethodGet, "/api/reports/sales?startDate=2026-03-01", tok, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing endDate: expected 400, got %d %v", resp.StatusCode, body)
	}
	resp, body = do(t, srv, http.MethodGet, "/api/reports/sales?startDate=2026-03-01&endDate=2026-03-31", tok, "")
	if resp.StatusCode != http.StatusOK || body["startDate"] != "2026-03-01" {
		t.Errorf("sales report: got %d %v", resp.StatusCode, body)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubService{})

	resp, body := do(t, srv, http.MethodGet, "/api/schema/order", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("schema: expected 200, got %d", resp.StatusCode)
	}
	props, _ := body["properties"].(map[string]any)
	if _, ok := props["service_id"]; !ok {
		t.Errorf("schema missing service_id: %v", body)
	}
	discount, _ := props["discount"].(map[string]any)
	if discount["type"] != "string" {
		t.Errorf("discount should be a numeric string, got %v", discount)
	}
	required, _ := body["required"].([]any)
	if len(required) != 3 {
		t.Errorf("want user_id, service_id, quantity required, got %v", required)
	}

	resp, _ = do(t, srv, http.MethodGet, "/api/schema/nope", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown schema: expected 404, got %d", resp.StatusCode)
	}
}

func TestCORS(t *testing.T) {
	h := CORS(" https://admin.example.com, ,https://ops.example.com ")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ops.example.com" {
		t.Errorf("allowed origin: got %q", got)
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Errorf("missing Vary: Origin, got %v", rec.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTeapot {
		t.Errorf("plain request should reach the handler, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin was allowed: %q", got)
	}
}
