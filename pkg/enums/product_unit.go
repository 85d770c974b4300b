package enums

import "fmt"

// ProductUnit maps to the product_unit enum in Postgres.
type ProductUnit string

const (
	ProductUnitKG    ProductUnit = "KG"
	ProductUnitLitre ProductUnit = "LITRE"
	ProductUnitPiece ProductUnit = "PIECE"
	ProductUnitDozen ProductUnit = "DOZEN"
	ProductUnitPack  ProductUnit = "PACK"
)

var validProductUnits = []ProductUnit{
	ProductUnitKG,
	ProductUnitLitre,
	ProductUnitPiece,
	ProductUnitDozen,
	ProductUnitPack,
}

// String implements fmt.Stringer.
func (p ProductUnit) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductUnit.
func (p ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
