package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stockin-agent/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ReceiptSummary is the structured narrative returned for a finalized receipt.
type ReceiptSummary struct {
	Narrative         string `json:"narrative" jsonschema_description:"Two or three sentences for the store manager describing the delivery"`
	FlaggedProductIDs []int  `json:"flagged_product_ids" jsonschema_description:"IDs of products that need follow-up with the supplier"`
	FollowUp          string `json:"follow_up" jsonschema_description:"One concrete next action, or an empty string when none is needed"`
}

// Summarizer turns a finalized receipt into a short report.
type Summarizer interface {
	SummarizeReceipt(ctx context.Context, receipt core.StockInReceipt) (*ReceiptSummary, error)
}

type Agent struct {
	client *openai.Client
	model  string
}

// NewAgent builds a Summarizer on the OpenAI Responses API. An empty model
// selects GPT-4o.
func NewAgent(apiKey, model string, opts ...option.RequestOption) *Agent {
	if model == "" {
		model = shared.ChatModelGPT4o
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &Agent{client: &client, model: model}
}

func (a *Agent) SummarizeReceipt(ctx context.Context, receipt core.StockInReceipt) (*ReceiptSummary, error) {
	schemaJSON, err := json.Marshal(generateSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(a.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(buildReceiptPrompt(receipt)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "stock_in_receipt_summary",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A short summary of a stock-in delivery reconciliation"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}
	return parseSummary(content, receipt)
}

func buildReceiptPrompt(receipt core.StockInReceipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a retail receiving supervisor.
Summarize the stock-in reconciliation below for the store manager.
Rules:
1. Mention shortages, overages and unexpected items by name.
2. Flag ONLY product IDs that appear in the lines below.
3. Do not invent quantities.

Purchase order: %s (%s)
Supplier: %s
Resulting PO status: %s
Units expected: %d, units scanned: %d, discrepancy value: %s

Lines:
`, receipt.PONumber, receipt.PurchaseOrderID, receipt.SupplierName, receipt.POStatus,
		receipt.TotalExpected, receipt.TotalScanned, receipt.DiscrepancyValue.StringFixed(2))

	for _, l := range receipt.Lines {
		fmt.Fprintf(&b, "- [%d] %s: expected %d, scanned %d, discrepancy %+d, status %s",
			l.ProductID, l.ProductName, l.ExpectedQuantity, l.ScannedQuantity, l.Discrepancy, l.Status)
		if l.ExpiryDate != nil {
			fmt.Fprintf(&b, ", expiry %s", l.ExpiryDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// parseSummary decodes the model output and drops flagged ids that are not on
// the receipt.
func parseSummary(content string, receipt core.StockInReceipt) (*ReceiptSummary, error) {
	var summary ReceiptSummary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	if strings.TrimSpace(summary.Narrative) == "" {
		return nil, fmt.Errorf("summary has no narrative")
	}

	onReceipt := make(map[int]bool, len(receipt.Lines))
	for _, l := range receipt.Lines {
		onReceipt[l.ProductID] = true
	}
	flagged := summary.FlaggedProductIDs[:0]
	for _, id := range summary.FlaggedProductIDs {
		if onReceipt[id] {
			flagged = append(flagged, id)
		}
	}
	summary.FlaggedProductIDs = flagged
	return &summary, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v ReceiptSummary
	return reflector.Reflect(v)
}
