package app

import (
	"context"
	"testing"
	"time"

	"water-admin/internal/core"
)

type fixedRoles map[string]int

func (f fixedRoles) RoleIDByName(ctx context.Context, name string) (int, error) {
	if id, ok := f[name]; ok {
		return id, nil
	}
	return 0, core.NotFoundf("role %q not found or inactive", name)
}

// newTestService wires no database; every call exercised here must fail
// or succeed before reaching an engine.
func newTestService() ApplicationService {
	roles := core.NewMemoryRoleCache(fixedRoles{"Admin": 1, "Customer": 2}, time.Minute)
	return NewAppService(nil, roles, core.DefaultInitialStatus)
}

func TestDateArgumentsRejectedBeforeQuery(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.SalesReport(ctx, "2026-03-01", ""); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("SalesReport without endDate: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.ExpenseReport(ctx, "03/01/2026", "2026-03-31"); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("ExpenseReport bad format: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.Invoice(ctx, 2, "2026-04-01", "2026-03-01"); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("Invoice reversed range: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.ListOrders(ctx, OrderQuery{StartDate: "2026-13-01"}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("ListOrders bad month: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.ListDeliveries(ctx, DeliveryQuery{StartDate: "2026-03-10", EndDate: "2026-03-01"}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("ListDeliveries reversed range: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.ListPayments(ctx, PaymentQuery{EndDate: "yesterday"}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("ListPayments bad endDate: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.ListExpenses(ctx, "x", ""); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("ListExpenses bad startDate: expected InvalidArgument, got %v", err)
	}
}

func TestHasRole(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	ok, err := svc.HasRole(ctx, 1, "Admin")
	if err != nil || !ok {
		t.Errorf("admin role id 1: got %v, %v", ok, err)
	}
	ok, err = svc.HasRole(ctx, 2, "Admin")
	if err != nil || ok {
		t.Errorf("customer as admin: got %v, %v", ok, err)
	}
	if _, err := svc.HasRole(ctx, 1, "Owner"); !core.IsKind(err, core.KindConfiguration) {
		t.Errorf("unknown role name: expected Configuration, got %v", err)
	}
}

func TestEnsureAdminUserRequiresCredentials(t *testing.T) {
	svc := newTestService()
	_, err := svc.EnsureAdminUser(context.Background(), AdminBootstrap{RoleName: "Admin"})
	if !core.IsKind(err, core.KindConfiguration) {
		t.Errorf("expected Configuration, got %v", err)
	}
}

func TestSelfServiceValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, 5, core.ProfileUpdate{}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("empty profile update: expected InvalidArgument, got %v", err)
	}
	blank := "  "
	if _, err := svc.UpdateProfile(ctx, 5, core.ProfileUpdate{FirstName: &blank}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("blank firstname: expected InvalidArgument, got %v", err)
	}
	if err := svc.ChangePassword(ctx, 5, "", "newsecret"); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("missing current password: expected InvalidArgument, got %v", err)
	}
	if err := svc.ChangePassword(ctx, 5, "oldsecret", "abc"); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("short new password: expected InvalidArgument, got %v", err)
	}
}

func TestReferenceUpdatesRejectBlankNames(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	blank := ""

	if _, err := svc.UpdateZone(ctx, 1, core.ZoneUpdate{Title: &blank}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("UpdateZone: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.UpdateSociety(ctx, 1, core.SocietyUpdate{Name: &blank}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("UpdateSociety: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.UpdateMeasure(ctx, 1, core.MeasureUpdate{Title: &blank}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("UpdateMeasure: expected InvalidArgument, got %v", err)
	}
	if _, err := svc.UpdateRole(ctx, 1, core.RoleUpdate{Name: &blank}); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("UpdateRole: expected InvalidArgument, got %v", err)
	}
}
