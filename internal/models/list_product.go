package models

import "time"

// ProductSummary is the catalog part of a list entry.
type ProductSummary struct {
	ID   string
	Name string
	Unit Unit
}

// ListProductWithDetails is a list entry joined with its catalog product.
type ListProductWithDetails struct {
	ID          string
	Quantity    float64
	IsPurchased bool
	AddedAt     time.Time
	Product     ProductSummary
}
