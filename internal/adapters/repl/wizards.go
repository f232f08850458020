package repl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"water-admin/internal/core"

	"github.com/shopspring/decimal"
)

// newOrder runs an interactive order creation session. The price is taken
// from the service at creation time; only quantity and discount are asked.
func (s *session) newOrder(customerID int) error {
	services, err := s.svc.ListServices(s.ctx, true)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		fmt.Fprintln(s.out, "No active services. Create one first.")
		return nil
	}
	fmt.Fprintf(s.out, "Creating order for customer #%d. Type 'cancel' at any prompt to abort.\n", customerID)
	printServices(s.out, services)

	raw := s.prompt("Service id: ")
	if strings.EqualFold(raw, "cancel") {
		fmt.Fprintln(s.out, "Order creation cancelled.")
		return nil
	}
	serviceID, err := parseID("service id", raw)
	if err != nil {
		return err
	}

	raw = s.prompt("Quantity: ")
	if strings.EqualFold(raw, "cancel") {
		fmt.Fprintln(s.out, "Order creation cancelled.")
		return nil
	}
	qty, err := strconv.Atoi(raw)
	if err != nil || qty <= 0 {
		return core.InvalidArgumentf("quantity must be a positive integer, got %q", raw)
	}

	discount := decimal.Zero
	if raw = s.prompt("Discount (blank for none): "); raw != "" {
		if discount, err = decimal.NewFromString(raw); err != nil {
			return core.InvalidArgumentf("invalid discount %q", raw)
		}
	}
	notes := s.prompt("Notes (optional): ")

	id, err := s.svc.CreateOrder(s.ctx, core.CreateOrderInput{
		UserID:    customerID,
		ServiceID: serviceID,
		Quantity:  qty,
		Discount:  discount,
		Notes:     notes,
	})
	if err != nil {
		return err
	}
	order, err := s.svc.GetOrder(s.ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nOrder created (ID: %d)\n", id)
	printOrders(s.out, []core.Order{*order})
	fmt.Fprintf(s.out, "Use '/deliver %d' to record a delivery.\n", id)
	return nil
}

// newDelivery records a delivery against orderID; the logged-in operator is
// the acting user for its initial status.
func (s *session) newDelivery(orderID int) error {
	order, err := s.svc.GetOrder(s.ctx, orderID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Delivering order #%d: %d x %s\n", order.ID, order.Quantity, order.ServiceTitle)

	boyID, err := parseID("delivery boy id", s.prompt("Delivery boy id: "))
	if err != nil {
		return err
	}

	date := s.prompt("Delivery date (YYYY-MM-DD, blank for today): ")
	if date == "" {
		date = time.Now().Format(core.DateLayout)
	}

	qty := order.Quantity
	if raw := s.prompt(fmt.Sprintf("Quantity [%d]: ", order.Quantity)); raw != "" {
		if qty, err = strconv.Atoi(raw); err != nil {
			return core.InvalidArgumentf("invalid quantity %q", raw)
		}
	}

	amount := order.GrandTotal
	if raw := s.prompt(fmt.Sprintf("Amount [%s]: ", order.GrandTotal.StringFixed(2))); raw != "" {
		if amount, err = decimal.NewFromString(raw); err != nil {
			return core.InvalidArgumentf("invalid amount %q", raw)
		}
	}
	notes := s.prompt("Notes (optional): ")

	id, err := s.svc.CreateDelivery(s.ctx, core.CreateDeliveryInput{
		OrderID:       orderID,
		DeliveryBoyID: boyID,
		DeliveryDate:  date,
		QtyOrdered:    qty,
		TotalAmount:   amount,
		Notes:         notes,
		ActingUserID:  s.user.UserID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Delivery #%d recorded with its initial status.\n", id)
	return nil
}
