package domain

import (
	"fmt"
	"math"
	"math/rand"
)

type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Free       int    `json:"stock"`
	Reserved   int    `json:"reserved"`
}

const catalogSize = 600

// SeedCatalog builds the demo catalog deterministically: 600 products with
// prices in [5.00, 200.00) and a skewed stock distribution so every 17th
// product is scarce.
func SeedCatalog() map[string]*Product {
	rng := rand.New(rand.NewSource(42))
	products := make(map[string]*Product, catalogSize)
	for i := 1; i <= catalogSize; i++ {
		id := fmt.Sprintf("p%04d", i)
		price := 500 + rng.Int63n(19500)
		base := 50
		if i%17 == 0 {
			base = 5
		}
		stock := base + int(45*math.Abs(math.Sin(float64(i)/13.0)))
		products[id] = &Product{
			ID:         id,
			Name:       "Product " + id,
			PriceCents: price,
			Free:       stock,
		}
	}
	return products
}
