package estimate

import "fmt"

const (
	Crore = 10_000_000
	Lakh  = 100_000
)

// Formatter renders a price in base currency units. Prices of one crore or
// more use LargeUnit, everything else SmallUnit.
type Formatter struct {
	Prefix    string
	LargeUnit string
	SmallUnit string
}

func DefaultFormatter() Formatter {
	return Formatter{
		Prefix:    "Estimated Price is: Rs. ",
		LargeUnit: "Crs",
		SmallUnit: "Lakhs",
	}
}

func (f Formatter) Format(price float64) string {
	if price >= Crore {
		return fmt.Sprintf("%s%.2f %s", f.Prefix, price/Crore, f.LargeUnit)
	}
	return fmt.Sprintf("%s%.2f %s", f.Prefix, price/Lakh, f.SmallUnit)
}
