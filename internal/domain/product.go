package domain

// Product carries the factor that converts one unit into capacity units.
type Product struct {
	ID             string
	Name           string
	CapacityFactor float64
}

// ProductCatalog indexes products by ID.
type ProductCatalog map[string]Product

func NewProductCatalog(products []Product) ProductCatalog {
	c := make(ProductCatalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}
