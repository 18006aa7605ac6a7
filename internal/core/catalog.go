package core

import "sort"

// ProductCatalog is the read-only product lookup the engine and the detection
// source depend on.
type ProductCatalog interface {
	// Product returns the catalog entry for id and whether it exists.
	Product(id int) (Product, bool)
	// Products returns every catalog entry ordered by id.
	Products() []Product
}

// MapCatalog is an immutable in-memory ProductCatalog.
type MapCatalog struct {
	byID map[int]Product
	all  []Product
}

// NewMapCatalog builds a catalog from products. Later duplicates win.
func NewMapCatalog(products []Product) *MapCatalog {
	c := &MapCatalog{byID: make(map[int]Product, len(products))}
	for _, p := range products {
		c.byID[p.ID] = p
	}
	c.all = make([]Product, 0, len(c.byID))
	for _, p := range c.byID {
		c.all = append(c.all, p)
	}
	sort.Slice(c.all, func(i, j int) bool { return c.all[i].ID < c.all[j].ID })
	return c
}

func (c *MapCatalog) Product(id int) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *MapCatalog) Products() []Product {
	out := make([]Product, len(c.all))
	copy(out, c.all)
	return out
}

// LookupProduct resolves id against catalog. Unknown ids come back as a
// placeholder product so a scan never fails on catalog gaps.
func LookupProduct(catalog ProductCatalog, id int) Product {
	if catalog != nil {
		if p, ok := catalog.Product(id); ok {
			return p
		}
	}
	return Product{ID: id, Name: UnknownProductName}
}
