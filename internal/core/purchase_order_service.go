package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type purchaseOrderService struct {
	pool *pgxpool.Pool
}

// NewPurchaseOrderService constructs a PurchaseOrderService backed by PostgreSQL.
func NewPurchaseOrderService(pool *pgxpool.Pool) PurchaseOrderService {
	return &purchaseOrderService{pool: pool}
}

// GetPO returns a purchase order by its ID, including all lines.
func (s *purchaseOrderService) GetPO(ctx context.Context, poID string) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	if err := s.pool.QueryRow(ctx, `
		SELECT id, po_number, order_date::text, supplier_name, status
		FROM purchase_orders
		WHERE id = $1`,
		poID,
	).Scan(&po.ID, &po.PONumber, &po.OrderDate, &po.SupplierName, &po.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %s: %w", poID, ErrPurchaseOrderNotFound)
		}
		return nil, fmt.Errorf("get purchase order %s: %w", poID, err)
	}

	lines, err := fetchLines(ctx, s.pool, poID)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return po, nil
}

// GetPOs returns purchase orders, optionally filtered by status, oldest first.
func (s *purchaseOrderService) GetPOs(ctx context.Context, status POStatus) ([]PurchaseOrder, error) {
	query := `
		SELECT id, po_number, order_date::text, supplier_name, status
		FROM purchase_orders`
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, string(status))
	}
	query += " ORDER BY order_date, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(&po.ID, &po.PONumber, &po.OrderDate, &po.SupplierName, &po.Status); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase orders: %w", err)
	}

	for i := range orders {
		lines, err := fetchLines(ctx, s.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

// Catalog loads every product into an in-memory catalog snapshot.
func (s *purchaseOrderService) Catalog(ctx context.Context) (ProductCatalog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, sku, category, has_expiry_date, unit_cost
		FROM products
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load product catalog: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.HasExpiryDate, &p.UnitCost); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return NewMapCatalog(products), nil
}

// RecordReceipt inserts the receipt and its lines and rolls the PO status
// forward over all receipts in a single transaction.
func (s *purchaseOrderService) RecordReceipt(ctx context.Context, receipt *StockInReceipt) error {
	if receipt == nil || receipt.ID == "" {
		return fmt.Errorf("receipt ID is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentStatus POStatus
	if err := tx.QueryRow(ctx,
		"SELECT status FROM purchase_orders WHERE id = $1 FOR UPDATE",
		receipt.PurchaseOrderID,
	).Scan(&currentStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("purchase order %s: %w", receipt.PurchaseOrderID, ErrPurchaseOrderNotFound)
		}
		return fmt.Errorf("lock purchase order %s: %w", receipt.PurchaseOrderID, err)
	}
	if currentStatus == POStatusCancelled {
		return fmt.Errorf("record receipt for %s: %w", receipt.PONumber, ErrPurchaseOrderCancelled)
	}

	received, err := receivedQuantities(ctx, tx, receipt.PurchaseOrderID)
	if err != nil {
		return err
	}
	for _, l := range receipt.Lines {
		received[l.ProductID] += l.ScannedQuantity
	}
	lines, err := fetchLines(ctx, tx, receipt.PurchaseOrderID)
	if err != nil {
		return err
	}
	receipt.POStatus = RollUpReceived(&PurchaseOrder{Lines: lines}, currentStatus, received)

	if _, err := tx.Exec(ctx, `
		INSERT INTO stock_in_receipts
		            (id, order_id, po_number, supplier_name, finalized_at, po_status,
		             total_expected, total_scanned, discrepancy_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		receipt.ID, receipt.PurchaseOrderID, receipt.PONumber, receipt.SupplierName,
		receipt.FinalizedAt, string(receipt.POStatus),
		receipt.TotalExpected, receipt.TotalScanned, receipt.DiscrepancyValue,
	); err != nil {
		return fmt.Errorf("insert stock-in receipt: %w", err)
	}

	for i, l := range receipt.Lines {
		var expiry *string
		if l.ExpiryDate != nil {
			d := l.ExpiryDate.Format("2006-01-02")
			expiry = &d
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_in_receipt_lines
			            (receipt_id, line_number, product_id, product_name, sku,
			             expected_quantity, scanned_quantity, discrepancy, status,
			             expiry_date, has_expiry_date, unit_cost, discrepancy_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::date, $11, $12, $13)`,
			receipt.ID, i+1, l.ProductID, l.ProductName, l.SKU,
			l.ExpectedQuantity, l.ScannedQuantity, l.Discrepancy, string(l.Status),
			expiry, l.HasExpiryDate, l.UnitCost, l.DiscrepancyValue,
		); err != nil {
			return fmt.Errorf("insert receipt line %d: %w", i+1, err)
		}
	}

	if receipt.POStatus != currentStatus {
		if _, err := tx.Exec(ctx,
			"UPDATE purchase_orders SET status = $1 WHERE id = $2",
			string(receipt.POStatus), receipt.PurchaseOrderID,
		); err != nil {
			return fmt.Errorf("update purchase order %s status: %w", receipt.PurchaseOrderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit stock-in receipt: %w", err)
	}
	return nil
}

// GetReceipt returns a stored receipt with its lines.
func (s *purchaseOrderService) GetReceipt(ctx context.Context, receiptID string) (*StockInReceipt, error) {
	if _, err := uuid.Parse(receiptID); err != nil {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, ErrReceiptNotFound)
	}

	rec := &StockInReceipt{}
	var poStatus string
	if err := s.pool.QueryRow(ctx, `
		SELECT id::text, order_id, po_number, supplier_name, finalized_at, po_status,
		       total_expected, total_scanned, discrepancy_value
		FROM stock_in_receipts
		WHERE id = $1`,
		receiptID,
	).Scan(&rec.ID, &rec.PurchaseOrderID, &rec.PONumber, &rec.SupplierName, &rec.FinalizedAt,
		&poStatus, &rec.TotalExpected, &rec.TotalScanned, &rec.DiscrepancyValue,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("receipt %s: %w", receiptID, ErrReceiptNotFound)
		}
		return nil, fmt.Errorf("get receipt %s: %w", receiptID, err)
	}
	rec.POStatus = POStatus(poStatus)

	rows, err := s.pool.Query(ctx, `
		SELECT product_id, product_name, sku, expected_quantity, scanned_quantity,
		       discrepancy, status, expiry_date, has_expiry_date, unit_cost, discrepancy_value
		FROM stock_in_receipt_lines
		WHERE receipt_id = $1
		ORDER BY line_number`,
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch lines for receipt %s: %w", receiptID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l StockInReceiptLine
		var status string
		var expiry *time.Time
		var unitCost, value decimal.Decimal
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.SKU, &l.ExpectedQuantity,
			&l.ScannedQuantity, &l.Discrepancy, &status, &expiry, &l.HasExpiryDate,
			&unitCost, &value,
		); err != nil {
			return nil, fmt.Errorf("scan receipt line: %w", err)
		}
		l.Status = ScanStatus(status)
		l.ExpiryDate = expiry
		l.UnitCost = unitCost
		l.DiscrepancyValue = value
		rec.Lines = append(rec.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipt lines: %w", err)
	}
	return rec, nil
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// receivedQuantities sums scanned units per product over the order's stored receipts.
func receivedQuantities(ctx context.Context, q querier, poID string) (map[int]int, error) {
	rows, err := q.Query(ctx, `
		SELECT l.product_id, SUM(l.scanned_quantity)
		FROM stock_in_receipt_lines l
		JOIN stock_in_receipts r ON r.id = l.receipt_id
		WHERE r.order_id = $1
		GROUP BY l.product_id`,
		poID,
	)
	if err != nil {
		return nil, fmt.Errorf("sum received quantities for order %s: %w", poID, err)
	}
	defer rows.Close()

	received := make(map[int]int)
	for rows.Next() {
		var productID int
		var qty int64
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan received quantity: %w", err)
		}
		received[productID] = int(qty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate received quantities: %w", err)
	}
	return received, nil
}

// fetchLines returns all lines for a purchase order.
func fetchLines(ctx context.Context, q querier, poID string) ([]PurchaseOrderLine, error) {
	rows, err := q.Query(ctx, `
		SELECT pol.product_id, COALESCE(p.name, pol.product_name), pol.expected_quantity
		FROM purchase_order_lines pol
		LEFT JOIN products p ON p.id = pol.product_id
		WHERE pol.order_id = $1
		ORDER BY pol.line_number`,
		poID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch PO lines for order %s: %w", poID, err)
	}
	defer rows.Close()

	var lines []PurchaseOrderLine
	for rows.Next() {
		var l PurchaseOrderLine
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.ExpectedQuantity); err != nil {
			return nil, fmt.Errorf("scan PO line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate PO lines: %w", err)
	}
	return lines, nil
}
