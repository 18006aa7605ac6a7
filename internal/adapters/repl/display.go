package repl

import (
	"fmt"
	"io"
	"strings"

	"stockin-agent/internal/app"
	"stockin-agent/internal/core"
)

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  /pos [status]           List purchase orders (optionally by status)
  /products               List the product catalog
  /select <po-id>         Select a purchase order for receiving
  /deselect               Clear the selected purchase order
  /start                  Start the simulated batch scanner
  /stop                   Stop scanning
  /scan <product-id> <n>  Record a manual scan
  /receive                Key in several counted items
  /results                Show the reconciliation table
  /events                 Show recent notifications
  /finalize               Finalize the shipment and print the receipt
  /receipt <id>           Show a stored receipt
  /exit                   Quit`)
}

func printPurchaseOrders(out io.Writer, result *app.PurchaseOrderListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintf(out, "  %-58s\n", "PURCHASE ORDERS")
	fmt.Fprintln(out, strings.Repeat("=", 72))
	if len(result.PurchaseOrders) == 0 {
		fmt.Fprintln(out, "  No purchase orders found.")
		fmt.Fprintln(out, strings.Repeat("=", 72))
		return
	}
	fmt.Fprintf(out, "  %-10s %-11s %-10s %-22s %s\n", "ID", "PO NUMBER", "DATE", "SUPPLIER", "STATUS")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, po := range result.PurchaseOrders {
		fmt.Fprintf(out, "  %-10s %-11s %-10s %-22s %s\n",
			po.ID, po.PONumber, po.OrderDate, truncate(po.SupplierName, 22), po.Status)
	}
	fmt.Fprintln(out, strings.Repeat("=", 72))
}

func printProducts(out io.Writer, result *app.ProductListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintf(out, "  %-58s\n", "PRODUCTS")
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintf(out, "  %-5s %-36s %-8s %6s %10s\n", "ID", "NAME", "SKU", "EXPIRY", "UNIT COST")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, p := range result.Products {
		sku := ""
		if p.SKU != nil {
			sku = *p.SKU
		}
		expiry := ""
		if p.HasExpiryDate {
			expiry = "yes"
		}
		fmt.Fprintf(out, "  %-5d %-36s %-8s %6s %10s\n", p.ID, truncate(p.Name, 36), sku, expiry, p.UnitCost.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 72))
}

func printStation(out io.Writer, st *app.StationResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 84))
	if st.PurchaseOrder == nil {
		fmt.Fprintf(out, "  No purchase order selected. State: %s\n", st.State)
		fmt.Fprintln(out, strings.Repeat("=", 84))
		return
	}
	fmt.Fprintf(out, "  PO %s - %s   [%s]   outstanding lines: %d\n",
		st.PurchaseOrder.PONumber, st.PurchaseOrder.SupplierName, st.State, st.Outstanding)
	fmt.Fprintln(out, strings.Repeat("=", 84))
	printRows(out, st.Results)
	fmt.Fprintln(out, strings.Repeat("=", 84))
}

func printRows(out io.Writer, rows []core.ScanResult) {
	fmt.Fprintf(out, "  %-5s %-32s %6s %6s %6s  %-10s %s\n", "ID", "PRODUCT", "EXP", "SCAN", "DIFF", "EXPIRY", "STATUS")
	fmt.Fprintln(out, strings.Repeat("-", 84))
	for _, r := range rows {
		expiry := ""
		if r.ExpiryDate != nil {
			expiry = r.ExpiryDate.Format("2006-01-02")
		}
		fmt.Fprintf(out, "  %-5d %-32s %6d %6d %+6d  %-10s %s\n",
			r.ProductID, truncate(r.ProductName, 32), r.ExpectedQuantity, r.ScannedQuantity, r.Discrepancy, expiry, r.Status)
	}
}

func printEvents(out io.Writer, result *app.EventListResult) {
	if len(result.Events) == 0 {
		fmt.Fprintln(out, "No recent events.")
		return
	}
	for _, ev := range result.Events {
		fmt.Fprintf(out, "  %s  %-18s %s\n", ev.At.Format("15:04:05"), ev.Kind, ev.Message)
	}
}

func printReceipt(out io.Writer, result *app.ReceiptResult) {
	rec := result.Receipt
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 84))
	fmt.Fprintf(out, "  STOCK-IN RECEIPT %s\n", rec.ID)
	fmt.Fprintf(out, "  PO       : %s - %s\n", rec.PONumber, rec.SupplierName)
	fmt.Fprintf(out, "  Finalized: %s\n", rec.FinalizedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "  PO status: %s\n", rec.POStatus)
	fmt.Fprintln(out, strings.Repeat("=", 84))
	rows := make([]core.ScanResult, len(rec.Lines))
	for i, l := range rec.Lines {
		rows[i] = l.ScanResult
	}
	printRows(out, rows)
	fmt.Fprintln(out, strings.Repeat("-", 84))
	fmt.Fprintf(out, "  Expected %d, scanned %d, discrepancy value %s\n",
		rec.TotalExpected, rec.TotalScanned, rec.DiscrepancyValue.StringFixed(2))
	if result.Summary != nil {
		fmt.Fprintf(out, "\n  Summary: %s\n", result.Summary.Narrative)
		if result.Summary.FollowUp != "" {
			fmt.Fprintf(out, "  Next   : %s\n", result.Summary.FollowUp)
		}
	} else if result.SummaryError != "" {
		fmt.Fprintf(out, "\n  (summary unavailable: %s)\n", result.SummaryError)
	}
	fmt.Fprintln(out, strings.Repeat("=", 84))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
