package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"water-admin/internal/app"
	"water-admin/internal/core"
)

// Usage lists the one-shot commands.
const Usage = `Usage:
  app summary
  app sales <startDate> <endDate>
  app expenses <startDate> <endDate>
  app invoice <userId> <startDate> <endDate> [--json]

Dates are YYYY-MM-DD; both bounds are inclusive.`

// Run executes a one-shot CLI command and writes its report to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", Usage)
	}

	switch args[0] {
	case "summary", "dash":
		s, err := svc.DashboardSummary(ctx)
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}
		printSummary(out, s)

	case "sales":
		if len(args) < 3 {
			return fmt.Errorf("usage: app sales <startDate> <endDate>")
		}
		result, err := svc.SalesReport(ctx, args[1], args[2])
		if err != nil {
			return fmt.Errorf("failed to compute sales: %w", err)
		}
		fmt.Fprintf(out, "Sales %s .. %s: %s\n", result.StartDate, result.EndDate, result.SalesTotal.StringFixed(2))

	case "expenses":
		if len(args) < 3 {
			return fmt.Errorf("usage: app expenses <startDate> <endDate>")
		}
		result, err := svc.ExpenseReport(ctx, args[1], args[2])
		if err != nil {
			return fmt.Errorf("failed to compute expenses: %w", err)
		}
		fmt.Fprintf(out, "Expenses %s .. %s: %s\n", result.StartDate, result.EndDate, result.ExpensesTotal.StringFixed(2))

	case "invoice", "inv":
		if len(args) < 4 {
			return fmt.Errorf("usage: app invoice <userId> <startDate> <endDate> [--json]")
		}
		userID, err := strconv.Atoi(args[1])
		if err != nil || userID <= 0 {
			return core.InvalidArgumentf("userId must be a positive integer, got %q", args[1])
		}
		inv, err := svc.Invoice(ctx, userID, args[2], args[3])
		if err != nil {
			return fmt.Errorf("failed to build invoice: %w", err)
		}
		if len(args) > 4 && args[4] == "--json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(inv)
		}
		printInvoice(out, inv)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], Usage)
	}
	return nil
}

func printSummary(out io.Writer, s *core.DashboardSummary) {
	fmt.Fprintln(out, strings.Repeat("=", 44))
	fmt.Fprintf(out, "  %-26s %15s\n", "DASHBOARD", "")
	fmt.Fprintln(out, strings.Repeat("=", 44))
	fmt.Fprintf(out, "  %-26s %15d\n", "Active customers", s.TotalActiveCustomers)
	fmt.Fprintf(out, "  %-26s %15s\n", "Today's sales", s.TodaysSalesTotal.StringFixed(2))
	fmt.Fprintf(out, "  %-26s %15d\n", "Today's deliveries", s.TodaysDeliveriesCount)
	fmt.Fprintf(out, "  %-26s %15s\n", "Total due", s.TotalDueAmount.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("=", 44))
}

func printInvoice(out io.Writer, inv *core.Invoice) {
	c := inv.Customer
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  INVOICE  %s .. %s\n", inv.StartDate, inv.EndDate)
	fmt.Fprintf(out, "  Customer : %s %s (#%d, %s)\n", c.FirstName, c.LastName, c.ID, c.Phone)
	fmt.Fprintln(out, strings.Repeat("=", 62))

	fmt.Fprintf(out, "  %-12s %-24s %6s %15s\n", "DATE", "ORDER", "QTY", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, o := range inv.Orders {
		fmt.Fprintf(out, "  %-12s %-24s %6d %15s\n",
			o.CreatedAt.Format(core.DateLayout), truncate(o.ServiceTitle, 24), o.Quantity, o.GrandTotal.StringFixed(2))
	}

	fmt.Fprintln(out, strings.Repeat("-", 62))
	fmt.Fprintf(out, "  %-12s %-24s %6s %15s\n", "DATE", "DELIVERY", "QTY", "AMOUNT")
	for _, d := range inv.Deliveries {
		fmt.Fprintf(out, "  %-12s %-24s %6d %15s\n",
			d.DeliveryDate, fmt.Sprintf("order #%d", d.OrderID), d.QtyOrdered, d.TotalAmount.StringFixed(2))
	}

	fmt.Fprintln(out, strings.Repeat("-", 62))
	fmt.Fprintf(out, "  %-12s %-24s %6s %15s\n", "DATE", "PAYMENT", "", "RECEIVED")
	for _, p := range inv.Payments {
		fmt.Fprintf(out, "  %-12s %-24s %6s %15s\n",
			p.CreatedAt.Format(core.DateLayout), string(p.Mode), "", p.Received.StringFixed(2))
	}

	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  %-44s %15s\n", "Previous due", inv.PreviousDue.StringFixed(2))
	fmt.Fprintf(out, "  %-44s %15s\n", "Current period due", inv.CurrentPeriodDue.StringFixed(2))
	fmt.Fprintf(out, "  %-44s %15s\n", "Current period paid", inv.CurrentPeriodPaid.StringFixed(2))
	fmt.Fprintf(out, "  %-44s %15s\n", "Total due", inv.TotalDue.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("=", 62))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
