package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"water-admin/internal/app"
	"water-admin/internal/core"

	"github.com/shopspring/decimal"
)

type stubService struct {
	app.ApplicationService
	invoiceUser int
}

func (s *stubService) DashboardSummary(ctx context.Context) (*core.DashboardSummary, error) {
	return &core.DashboardSummary{
		TotalActiveCustomers:  12,
		TodaysSalesTotal:      decimal.NewFromInt(450),
		TodaysDeliveriesCount: 4,
		TotalDueAmount:        decimal.RequireFromString("1200.5"),
	}, nil
}

func (s *stubService) SalesReport(ctx context.Context, startDate, endDate string) (*app.SalesReportResult, error) {
	if _, err := core.RequiredDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	return &app.SalesReportResult{StartDate: startDate, EndDate: endDate, SalesTotal: decimal.NewFromInt(300)}, nil
}

func (s *stubService) Invoice(ctx context.Context, userID int, startDate, endDate string) (*core.Invoice, error) {
	s.invoiceUser = userID
	return &core.Invoice{
		Customer:  core.CustomerProfile{ID: userID, FirstName: "Ravi"},
		StartDate: startDate,
		EndDate:   endDate,
		TotalDue:  decimal.NewFromInt(500),
	}, nil
}

func TestRun_Summary(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), &stubService{}, []string{"summary"}, &out); err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Active customers", "450.00", "1200.50"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_Sales(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), &stubService{}, []string{"sales", "2026-03-01", "2026-03-31"}, &out); err != nil {
		t.Fatalf("sales: %v", err)
	}
	if !strings.Contains(out.String(), "300.00") {
		t.Errorf("unexpected output: %s", out.String())
	}

	err := Run(context.Background(), &stubService{}, []string{"sales", "2026-03-31", "2026-03-01"}, &out)
	if !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("reversed range: expected InvalidArgument, got %v", err)
	}
}

func TestRun_InvoiceJSON(t *testing.T) {
	svc := &stubService{}
	var out bytes.Buffer
	if err := Run(context.Background(), svc, []string{"invoice", "2", "2026-03-01", "2026-03-31", "--json"}, &out); err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if svc.invoiceUser != 2 {
		t.Errorf("want user 2, got %d", svc.invoiceUser)
	}
	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invoice JSON: %v", err)
	}
	if got["totalDue"] != "500" {
		t.Errorf("totalDue: got %v", got["totalDue"])
	}

	if err := Run(context.Background(), svc, []string{"invoice", "abc", "2026-03-01", "2026-03-31"}, &out); !core.IsKind(err, core.KindInvalidArgument) {
		t.Errorf("bad user id: expected InvalidArgument, got %v", err)
	}
}

func TestRun_Unknown(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), &stubService{}, []string{"frobnicate"}, &out); err == nil {
		t.Error("expected error for unknown command")
	}
	if err := Run(context.Background(), &stubService{}, nil, &out); err == nil {
		t.Error("expected error for empty args")
	}
}
