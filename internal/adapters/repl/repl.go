package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"water-admin/internal/adapters/cli"
	"water-admin/internal/app"
	"water-admin/internal/core"

	"github.com/shopspring/decimal"
)

var errExit = errors.New("exit")

// session is the operator console state. user is set by /login and is the
// acting user for status changes, deliveries and payments.
type session struct {
	ctx    context.Context
	svc    app.ApplicationService
	reader *bufio.Reader
	out    io.Writer
	user   *app.UserSession
}

// Run starts the interactive operator console. It reads slash commands from
// reader until /exit or end of input.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	s := &session{ctx: ctx, svc: svc, reader: reader, out: out}

	fmt.Fprintln(out, "Water Admin console")
	fmt.Fprintln(out, "Use /login <phone> <password> before recording deliveries or payments; /help lists commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if readErr != nil {
				return
			}
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with /  (type /help for all commands)")
			continue
		}
		if err := s.dispatch(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if readErr != nil {
			return
		}
	}
}

func (s *session) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "login":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: /login <phone> <password>")
			return nil
		}
		u, err := s.svc.Login(s.ctx, args[0], args[1])
		if err != nil {
			return err
		}
		s.user = u
		fmt.Fprintf(s.out, "Logged in as %s %s (%s).\n", u.FirstName, u.LastName, u.RoleName)

	case "summary", "sales", "expenses", "invoice":
		return cli.Run(s.ctx, s.svc, append([]string{cmd}, args...), s.out)

	case "orders":
		userID, err := optionalID(args)
		if err != nil {
			return err
		}
		orders, err := s.svc.ListOrders(s.ctx, app.OrderQuery{UserID: userID})
		if err != nil {
			return err
		}
		printOrders(s.out, orders)

	case "new-order":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /new-order <customer-id>")
			return nil
		}
		customerID, err := parseID("customer-id", args[0])
		if err != nil {
			return err
		}
		return s.newOrder(customerID)

	case "deliveries":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /deliveries <order-id>")
			return nil
		}
		orderID, err := parseID("order-id", args[0])
		if err != nil {
			return err
		}
		deliveries, err := s.svc.ListOrderDeliveries(s.ctx, orderID)
		if err != nil {
			return err
		}
		printDeliveries(s.out, deliveries)

	case "deliver":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /deliver <order-id>")
			return nil
		}
		orderID, err := parseID("order-id", args[0])
		if err != nil {
			return err
		}
		if err := s.requireLogin(); err != nil {
			return err
		}
		return s.newDelivery(orderID)

	case "history":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /history <delivery-id>")
			return nil
		}
		deliveryID, err := parseID("delivery-id", args[0])
		if err != nil {
			return err
		}
		entries, err := s.svc.DeliveryHistory(s.ctx, deliveryID)
		if err != nil {
			return err
		}
		printHistory(s.out, entries)

	case "status":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "Usage: /status <delivery-id> <status-id>")
			return nil
		}
		deliveryID, err := parseID("delivery-id", args[0])
		if err != nil {
			return err
		}
		statusID, err := parseID("status-id", args[1])
		if err != nil {
			return err
		}
		if err := s.requireLogin(); err != nil {
			return err
		}
		if _, err := s.svc.AppendDeliveryStatus(s.ctx, deliveryID, statusID, s.user.UserID); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Status %d appended to delivery %d.\n", statusID, deliveryID)

	case "payments":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /payments <buyer-id>")
			return nil
		}
		buyerID, err := parseID("buyer-id", args[0])
		if err != nil {
			return err
		}
		payments, err := s.svc.ListBuyerPayments(s.ctx, buyerID)
		if err != nil {
			return err
		}
		printPayments(s.out, payments)

	case "pay":
		if len(args) < 3 {
			fmt.Fprintln(s.out, "Usage: /pay <buyer-id> <mode> <amount> [due-after]")
			return nil
		}
		if err := s.requireLogin(); err != nil {
			return err
		}
		buyerID, err := parseID("buyer-id", args[0])
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return core.InvalidArgumentf("invalid amount %q", args[2])
		}
		due := decimal.Zero
		if len(args) >= 4 {
			if due, err = decimal.NewFromString(args[3]); err != nil {
				return core.InvalidArgumentf("invalid due %q", args[3])
			}
		}
		id, err := s.svc.RecordPayment(s.ctx, core.RecordPaymentInput{
			BuyerID:     buyerID,
			Mode:        strings.ToLower(args[1]),
			ReceivedBy:  s.user.UserID,
			Received:    amount,
			DueSnapshot: due,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Payment #%d recorded: %s via %s.\n", id, amount.StringFixed(2), strings.ToLower(args[1]))

	case "services":
		services, err := s.svc.ListServices(s.ctx, true)
		if err != nil {
			return err
		}
		printServices(s.out, services)

	case "statuses":
		statuses, err := s.svc.ListOrderStatuses(s.ctx)
		if err != nil {
			return err
		}
		printStatuses(s.out, statuses)

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

func (s *session) requireLogin() error {
	if s.user == nil {
		return core.InvalidArgumentf("log in first with /login <phone> <password>")
	}
	return nil
}

// prompt prints label and returns the trimmed reply.
func (s *session) prompt(label string) string {
	fmt.Fprint(s.out, label)
	line, _ := s.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func parseID(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, core.InvalidArgumentf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}

func optionalID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return parseID("id", args[0])
}
