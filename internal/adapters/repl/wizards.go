package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"stockin-agent/internal/app"
)

// handleManualReceive runs an interactive session for keying in counted items
// that the camera missed.
func handleManualReceive(ctx context.Context, reader *bufio.Reader, out io.Writer, svc app.ApplicationService, stationID string) {
	fmt.Fprintln(out, "Enter counted items. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(out, "Format per line: <product-id> <quantity>")
	fmt.Fprintln(out, "  Example: 9 12")

	type entry struct{ productID, qty int }
	var entries []entry
	lineNum := 1
	for {
		fmt.Fprintf(out, "  Item %d: ", lineNum)
		raw, err := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.ToLower(raw) == "cancel" || (err != nil && raw == "") {
			fmt.Fprintln(out, "Manual receive cancelled.")
			return
		}
		if strings.ToLower(raw) == "done" {
			break
		}
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		if len(parts) != 2 {
			fmt.Fprintln(out, "  Expected: <product-id> <quantity>")
			continue
		}
		productID, err := strconv.Atoi(parts[0])
		if err != nil {
			fmt.Fprintf(out, "  Invalid product id: %s\n", parts[0])
			continue
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil || qty <= 0 {
			fmt.Fprintf(out, "  Invalid quantity: %s\n", parts[1])
			continue
		}
		entries = append(entries, entry{productID, qty})
		lineNum++
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No items entered.")
		return
	}

	var last *app.StationResult
	for _, e := range entries {
		result, err := svc.RecordManualScan(ctx, app.ManualScanRequest{StationID: stationID, ProductID: e.productID, Quantity: e.qty})
		if err != nil {
			fmt.Fprintf(out, "Error recording product %d: %v\n", e.productID, err)
			return
		}
		last = result
	}
	fmt.Fprintf(out, "%d item(s) recorded.\n", len(entries))
	printStation(out, last)
}
