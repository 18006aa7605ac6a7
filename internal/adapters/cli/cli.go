package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"stockin-agent/internal/app"
)

// Run executes a one-shot CLI command.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\nAvailable: pos, products, receipt, simulate")
	}

	switch args[0] {
	case "pos", "orders":
		status := ""
		if len(args) > 1 {
			status = strings.Join(args[1:], " ")
		}
		result, err := svc.ListPurchaseOrders(ctx, status)
		if err != nil {
			return fmt.Errorf("list purchase orders: %w", err)
		}
		return encode(out, result)

	case "products":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return encode(out, result)

	case "receipt":
		if len(args) < 2 {
			return fmt.Errorf("usage: app receipt <receipt-id>")
		}
		result, err := svc.GetReceipt(ctx, args[1])
		if err != nil {
			return err
		}
		return encode(out, result)

	case "simulate", "sim":
		if len(args) < 3 {
			return fmt.Errorf("usage: app simulate <po-id> <seconds>")
		}
		seconds, err := strconv.Atoi(args[2])
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid duration %q: must be a positive number of seconds", args[2])
		}
		result, err := Simulate(ctx, svc, args[1], time.Duration(seconds)*time.Second)
		if err != nil {
			return err
		}
		return encode(out, result)

	default:
		return fmt.Errorf("unknown command: %s\nAvailable: pos, products, receipt, simulate", args[0])
	}
}

// Simulate selects poID on a fresh station, scans for d, then finalizes and
// returns the receipt. The station is closed afterwards.
func Simulate(ctx context.Context, svc app.ApplicationService, poID string, d time.Duration) (*app.ReceiptResult, error) {
	st, err := svc.CreateStation(ctx)
	if err != nil {
		return nil, fmt.Errorf("open station: %w", err)
	}
	defer svc.CloseStation(context.Background(), st.StationID)

	if _, err := svc.SelectPurchaseOrder(ctx, app.SelectPurchaseOrderRequest{StationID: st.StationID, PurchaseOrderID: poID}); err != nil {
		return nil, err
	}
	if _, err := svc.StartScan(ctx, st.StationID); err != nil {
		return nil, err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	if _, err := svc.StopScan(context.Background(), st.StationID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("simulation interrupted: %w", err)
	}
	return svc.FinalizeShipment(ctx, st.StationID)
}

func encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
