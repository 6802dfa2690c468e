package models

import "time"

// Unit is the unit of measure of a catalog product.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "un"
	UnitPack       Unit = "pct"
	UnitBox        Unit = "cx"
)

// DefaultUnit is applied when a product is created without a unit.
const DefaultUnit = UnitPiece

// Units lists every supported unit.
var Units = []Unit{UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece, UnitPack, UnitBox}

// Valid reports whether u is a supported unit.
func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// Product is an entry of the global product catalog.
type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Unit      Unit       `json:"unit"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
