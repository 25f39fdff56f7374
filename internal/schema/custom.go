package schema

import "fmt"

// RoundedFloat is a money amount that always marshals with two decimals.
type RoundedFloat float64

func (f RoundedFloat) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%.2f", f)), nil
}
