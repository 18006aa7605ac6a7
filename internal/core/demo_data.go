package core

import "github.com/shopspring/decimal"

func sku(s string) *string { return &s }

// DemoProducts is the catalog used when no database is configured. It mirrors
// the rows seeded by migrations/001_stock_in.sql.
func DemoProducts() []Product {
	return []Product{
		{ID: 1, Name: "Kopi Ais Kaw", SKU: sku("DRK-001"), Category: "Minuman", UnitCost: decimal.RequireFromString("2.10")},
		{ID: 2, Name: "Nasi Lemak Ayam", SKU: sku("FOD-001"), Category: "Makanan", HasExpiryDate: true, UnitCost: decimal.RequireFromString("6.50")},
		{ID: 3, Name: "Teh O Ais Limau", SKU: sku("DRK-002"), Category: "Minuman", UnitCost: decimal.RequireFromString("1.40")},
		{ID: 4, Name: "Sandwich Tuna", SKU: sku("FOD-002"), Category: "Makanan", HasExpiryDate: true, UnitCost: decimal.RequireFromString("3.80")},
		{ID: 9, Name: "Oreo Cadbury Cookies 54g", SKU: sku("SNK-001"), Category: "Biskut & Snek", HasExpiryDate: true, UnitCost: decimal.RequireFromString("1.75")},
		{ID: 10, Name: "Hup Seng Cream Crackers 428g", SKU: sku("SNK-002"), Category: "Biskut & Snek", HasExpiryDate: true, UnitCost: decimal.RequireFromString("3.20")},
		{ID: 14, Name: "Ikan Kembung Segar (per kg)", SKU: sku("FRZ-001"), Category: "Sejuk Beku", HasExpiryDate: true, UnitCost: decimal.RequireFromString("10.00")},
		{ID: 18, Name: "Gardenia Original Classic 400g", SKU: sku("BKY-002"), Category: "Roti & Pastri", HasExpiryDate: true, UnitCost: decimal.RequireFromString("2.05")},
		{ID: 67, Name: "KLEENSO 99 Floor Cleaner Serai Wangi 900g", SKU: sku("HMC-001"), Category: "Penjagaan Diri & Rumah", UnitCost: decimal.RequireFromString("5.40")},
		{ID: 96, Name: "Farm Fresh UHT Full Cream Milk 200ml", SKU: sku("DRY-001"), Category: "Tenusu & Telur", HasExpiryDate: true, UnitCost: decimal.RequireFromString("2.10")},
		{ID: 150, Name: "Tomato (per kg)", SKU: sku("CKG-001"), Category: "Barangan Runcit", UnitCost: decimal.RequireFromString("3.60")},
	}
}

// DemoPurchaseOrders returns the pending purchase orders used without a database.
func DemoPurchaseOrders() []PurchaseOrder {
	return []PurchaseOrder{
		{
			ID: "PO2024001", PONumber: "PO-XYZ-001", OrderDate: "2024-07-15",
			SupplierName: "Snek Borong Sdn Bhd", Status: POStatusPending,
			Lines: []PurchaseOrderLine{
				{ProductID: 9, ProductName: "Oreo Cadbury Cookies 54g", ExpectedQuantity: 100},
				{ProductID: 10, ProductName: "Hup Seng Cream Crackers 428g", ExpectedQuantity: 50},
			},
		},
		{
			ID: "PO2024002", PONumber: "PO-ABC-007", OrderDate: "2024-07-18",
			SupplierName: "Minuman Segar Global", Status: POStatusPending,
			Lines: []PurchaseOrderLine{
				{ProductID: 1, ProductName: "Kopi Ais Kaw", ExpectedQuantity: 200},
				{ProductID: 3, ProductName: "Teh O Ais Limau", ExpectedQuantity: 150},
				{ProductID: 96, ProductName: "Farm Fresh UHT Full Cream Milk 200ml", ExpectedQuantity: 120},
			},
		},
		{
			ID: "PO2024003", PONumber: "PO-MIX-112", OrderDate: "2024-07-20",
			SupplierName: "MegaMart Supplies", Status: POStatusPending,
			Lines: []PurchaseOrderLine{
				{ProductID: 2, ProductName: "Nasi Lemak Ayam", ExpectedQuantity: 50},
				{ProductID: 18, ProductName: "Gardenia Original Classic 400g", ExpectedQuantity: 80},
				{ProductID: 14, ProductName: "Ikan Kembung Segar (per kg)", ExpectedQuantity: 30},
			},
		},
	}
}
