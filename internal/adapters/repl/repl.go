package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"stockin-agent/internal/app"
)

var errExit = errors.New("exit")

// Run starts the interactive REPL loop on a fresh receiving station.
// It reads commands from reader and writes everything to out.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) error {
	st, err := svc.CreateStation(ctx)
	if err != nil {
		return fmt.Errorf("open station: %w", err)
	}
	stationID := st.StationID
	defer svc.CloseStation(context.Background(), stationID)

	fmt.Fprintln(out, "Vision Stock-In")
	fmt.Fprintf(out, "Station: %s\n", stationID)
	fmt.Fprintln(out, "Select a purchase order with /select <po-id>, then /start. Type /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "pos", "orders":
			status := ""
			if len(args) > 0 {
				status = strings.Join(args, " ")
			}
			result, err := svc.ListPurchaseOrders(ctx, status)
			if err != nil {
				return err
			}
			printPurchaseOrders(out, result)

		case "products":
			result, err := svc.ListProducts(ctx)
			if err != nil {
				return err
			}
			printProducts(out, result)

		case "select":
			if len(args) < 1 {
				fmt.Fprintln(out, "Usage: /select <po-id>")
				return nil
			}
			result, err := svc.SelectPurchaseOrder(ctx, app.SelectPurchaseOrderRequest{
				StationID:       stationID,
				PurchaseOrderID: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "PO %s selected (%s). %d line(s) pending scan.\n",
				result.PurchaseOrder.PONumber, result.PurchaseOrder.SupplierName, len(result.Results))

		case "deselect":
			if _, err := svc.DeselectPurchaseOrder(ctx, stationID); err != nil {
				return err
			}
			fmt.Fprintln(out, "Purchase order cleared.")

		case "start":
			if _, err := svc.StartScan(ctx, stationID); err != nil {
				return err
			}
			fmt.Fprintln(out, "Scanning started. Use /results to watch progress, /stop to pause.")

		case "stop":
			if _, err := svc.StopScan(ctx, stationID); err != nil {
				return err
			}
			fmt.Fprintln(out, "Scanning stopped.")

		case "scan":
			if len(args) < 2 {
				fmt.Fprintln(out, "Usage: /scan <product-id> <qty>")
				return nil
			}
			productID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			result, err := svc.RecordManualScan(ctx, app.ManualScanRequest{StationID: stationID, ProductID: productID, Quantity: qty})
			if err != nil {
				return err
			}
			printStation(out, result)

		case "receive":
			handleManualReceive(ctx, reader, out, svc, stationID)

		case "results", "r":
			result, err := svc.GetStation(ctx, stationID)
			if err != nil {
				return err
			}
			printStation(out, result)

		case "events":
			result, err := svc.RecentEvents(ctx, stationID)
			if err != nil {
				return err
			}
			printEvents(out, result)

		case "finalize":
			result, err := svc.FinalizeShipment(ctx, stationID)
			if err != nil {
				return err
			}
			printReceipt(out, result)

		case "receipt":
			if len(args) < 1 {
				fmt.Fprintln(out, "Usage: /receipt <receipt-id>")
				return nil
			}
			result, err := svc.GetReceipt(ctx, args[0])
			if err != nil {
				return err
			}
			printReceipt(out, result)

		case "help", "h":
			printHelp(out)

		case "exit", "quit", "q":
			return errExit

		default:
			fmt.Fprintf(out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Fprint(out, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if readErr != nil {
				return nil
			}
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with '/'. Type /help for the list.")
			continue
		}
		if err := dispatchSlash(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if readErr != nil {
			return nil
		}
	}
}
