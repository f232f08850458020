package repl

import (
	"fmt"
	"io"
	"strings"

	"water-admin/internal/core"
)

func printOrders(out io.Writer, orders []core.Order) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %-6s %-10s %-8s %-20s %5s %10s %10s\n", "ID", "DATE", "CUST", "SERVICE", "QTY", "PRICE", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, o := range orders {
		fmt.Fprintf(out, "  %-6d %-10s %-8d %-20s %5d %10s %10s\n",
			o.ID, o.CreatedAt.Format(core.DateLayout), o.UserID, clip(o.ServiceTitle, 20),
			o.Quantity, o.Price.StringFixed(2), o.GrandTotal.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintf(out, "  %d order(s)\n", len(orders))
}

func printDeliveries(out io.Writer, deliveries []core.Delivery) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 70))
	fmt.Fprintf(out, "  %-6s %-10s %-6s %6s %6s %12s\n", "ID", "DATE", "BOY", "QTY", "RET", "AMOUNT")
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for _, d := range deliveries {
		fmt.Fprintf(out, "  %-6d %-10s %-6d %6d %6d %12s\n",
			d.ID, d.DeliveryDate, d.DeliveryBoyID, d.QtyOrdered, d.QtyReturn, d.TotalAmount.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 70))
}

func printHistory(out io.Writer, entries []core.StatusHistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No status history.")
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Current: %s\n", entries[0].StatusTitle)
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, e := range entries {
		fmt.Fprintf(out, "  %-20s %-22s by #%d\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.StatusTitle, e.UpdatedBy)
	}
}

func printPayments(out io.Writer, payments []core.Payment) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 66))
	fmt.Fprintf(out, "  %-6s %-10s %-12s %12s %12s\n", "ID", "DATE", "MODE", "RECEIVED", "DUE AFTER")
	fmt.Fprintln(out, strings.Repeat("-", 66))
	for _, p := range payments {
		fmt.Fprintf(out, "  %-6d %-10s %-12s %12s %12s\n",
			p.ID, p.CreatedAt.Format(core.DateLayout), p.Mode, p.Received.StringFixed(2), p.DueSnapshot.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 66))
}

func printServices(out io.Writer, services []core.Service) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-6s %-30s %12s\n", "ID", "SERVICE", "PRICE")
	fmt.Fprintln(out, strings.Repeat("-", 52))
	for _, s := range services {
		fmt.Fprintf(out, "  %-6d %-30s %12s\n", s.ID, clip(s.Title, 30), s.Price.StringFixed(2))
	}
}

func printStatuses(out io.Writer, statuses []core.OrderStatus) {
	fmt.Fprintln(out)
	for _, st := range statuses {
		fmt.Fprintf(out, "  %-4d %-24s priority %d\n", st.ID, st.Title, st.Priority)
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "WATER ADMIN - COMMANDS")
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  REPORTS")
	fmt.Fprintln(out, "  /summary                             Dashboard figures")
	fmt.Fprintln(out, "  /sales <from> <to>                   Sales total")
	fmt.Fprintln(out, "  /expenses <from> <to>                Expenses total")
	fmt.Fprintln(out, "  /invoice <customer-id> <from> <to>   Customer statement")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ORDERS")
	fmt.Fprintln(out, "  /services                            Active services and prices")
	fmt.Fprintln(out, "  /orders [customer-id]                List orders")
	fmt.Fprintln(out, "  /new-order <customer-id>             Create order (interactive)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  DELIVERIES")
	fmt.Fprintln(out, "  /deliveries <order-id>               Deliveries of an order")
	fmt.Fprintln(out, "  /deliver <order-id>                  Record delivery (interactive)")
	fmt.Fprintln(out, "  /statuses                            Order statuses")
	fmt.Fprintln(out, "  /history <delivery-id>               Status history, newest first")
	fmt.Fprintln(out, "  /status <delivery-id> <status-id>    Append a status")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  PAYMENTS")
	fmt.Fprintln(out, "  /payments <customer-id>              Payment history")
	fmt.Fprintln(out, "  /pay <customer-id> <mode> <amount> [due-after]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  SESSION")
	fmt.Fprintln(out, "  /login <phone> <password>            Identify the operator")
	fmt.Fprintln(out, "  /help                                Show this help")
	fmt.Fprintln(out, "  /exit                                Exit")
	fmt.Fprintln(out, strings.Repeat("=", 62))
}
