package valueobject

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// UnitFamily groups measurement units that can be converted into each other
type UnitFamily string

const (
	FamilyMass   UnitFamily = "mass"
	FamilyVolume UnitFamily = "volume"
	FamilyCount  UnitFamily = "count"
)

// Unit is a measurement unit used on supplier goods and recipe ingredients.
// Conversion is only defined within one family; converting grams to liters is
// an explicit error, never a silent wrong value.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitMilligram  Unit = "mg"
	UnitLiter      Unit = "l"
	UnitDeciliter  Unit = "dl"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "pcs"
	UnitPortion    Unit = "portion"
	UnitDozen      Unit = "dozen"
)

// unitTable maps each unit to its family and its rate relative to the family
// base unit (kg, l, pcs).
var unitTable = map[Unit]struct {
	family UnitFamily
	toBase decimal.Decimal
}{
	UnitKilogram:   {FamilyMass, decimal.NewFromInt(1)},
	UnitGram:       {FamilyMass, decimal.NewFromFloat(0.001)},
	UnitMilligram:  {FamilyMass, decimal.NewFromFloat(0.000001)},
	UnitLiter:      {FamilyVolume, decimal.NewFromInt(1)},
	UnitDeciliter:  {FamilyVolume, decimal.NewFromFloat(0.1)},
	UnitMilliliter: {FamilyVolume, decimal.NewFromFloat(0.001)},
	UnitPiece:      {FamilyCount, decimal.NewFromInt(1)},
	UnitPortion:    {FamilyCount, decimal.NewFromInt(1)},
	UnitDozen:      {FamilyCount, decimal.NewFromInt(12)},
}

// ParseUnit normalizes and validates a unit string
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := unitTable[u]; !ok {
		return "", fmt.Errorf("unknown measurement unit %q", s)
	}
	return u, nil
}

// IsValid returns true if the unit is a known measurement unit
func (u Unit) IsValid() bool {
	_, ok := unitTable[u]
	return ok
}

// Family returns the unit's measurement family
func (u Unit) Family() (UnitFamily, error) {
	entry, ok := unitTable[u]
	if !ok {
		return "", fmt.Errorf("unknown measurement unit %q", u)
	}
	return entry.family, nil
}

// String returns the unit code
func (u Unit) String() string {
	return string(u)
}

// ConvertQuantity converts a quantity from one unit to another within the same
// family. Cross-family conversions and unknown units surface as errors.
func ConvertQuantity(quantity decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if from == to {
		return quantity, nil
	}
	fromEntry, ok := unitTable[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown measurement unit %q", from)
	}
	toEntry, ok := unitTable[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown measurement unit %q", to)
	}
	if fromEntry.family != toEntry.family {
		return decimal.Zero, fmt.Errorf("cannot convert %s (%s) to %s (%s)", from, fromEntry.family, to, toEntry.family)
	}
	return quantity.Mul(fromEntry.toBase).Div(toEntry.toBase), nil
}

// Value implements driver.Valuer for database storage
func (u Unit) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for database retrieval
func (u *Unit) Scan(value any) error {
	if value == nil {
		*u = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*u = Unit(v)
	case []byte:
		*u = Unit(v)
	default:
		return fmt.Errorf("cannot scan %T into Unit", value)
	}
	return nil
}
