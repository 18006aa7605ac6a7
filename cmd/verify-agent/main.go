// verify-agent sends a demo receipt to the OpenAI receipt summarizer and
// prints the structured result. It needs OPENAI_API_KEY and nothing else.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"stockin-agent/internal/ai"
	"stockin-agent/internal/config"
	"stockin-agent/internal/core"

	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "verify-agent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set")
	}

	ctx := context.Background()
	store := core.NewMemoryPurchaseOrderService(core.DemoPurchaseOrders(), core.DemoProducts())
	po, err := store.GetPO(ctx, "PO2024001")
	if err != nil {
		return err
	}
	catalog, err := store.Catalog(ctx)
	if err != nil {
		return err
	}

	// Short on the first line, over on the second, plus a product nobody ordered.
	engine := core.NewReconciliationEngine()
	engine.InitializeForOrder(po, catalog)
	scans := map[int]int{}
	for i, line := range po.Lines {
		switch i {
		case 0:
			scans[line.ProductID] = line.ExpectedQuantity / 2
		case 1:
			scans[line.ProductID] = line.ExpectedQuantity + 3
		default:
			scans[line.ProductID] = line.ExpectedQuantity
		}
	}
	scans[999] = 2
	for id, qty := range scans {
		if qty == 0 {
			continue
		}
		if _, err := engine.RecordScan(core.LookupProduct(catalog, id), qty); err != nil {
			return err
		}
	}
	receipt := core.BuildReceipt(uuid.NewString(), po, engine.Results(), catalog, time.Now().UTC())

	agent := ai.NewAgent(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	fmt.Printf("SUMMARIZING RECEIPT for %s (%s)\n", receipt.PONumber, receipt.POStatus)
	summary, err := agent.SummarizeReceipt(ctx, receipt)
	if err != nil {
		return err
	}

	fmt.Printf("\n--- SUMMARY ---\n%s\n", summary.Narrative)
	fmt.Printf("\nFlagged products: %v\n", summary.FlaggedProductIDs)
	fmt.Printf("Follow-up: %s\n", summary.FollowUp)
	return nil
}
