package domain

import "fmt"

// BusinessType is one of the fixed categories a business registers under.
type BusinessType string

const (
	AccommodationAndFood BusinessType = "Accommodation and Food Services"
	RetailTrade          BusinessType = "Retail Trade"
	CharitableOrg        BusinessType = "Charitable organisation"
	NonProfitOrg         BusinessType = "Non-profit organisation"
)

var businessTypes = []BusinessType{AccommodationAndFood, RetailTrade, CharitableOrg, NonProfitOrg}

// BusinessTypes returns every valid business type.
func BusinessTypes() []BusinessType {
	out := make([]BusinessType, len(businessTypes))
	copy(out, businessTypes)
	return out
}

// ParseBusinessType returns the business type whose label is exactly s.
func ParseBusinessType(s string) (BusinessType, error) {
	for _, bt := range businessTypes {
		if string(bt) == s {
			return bt, nil
		}
	}
	return "", fmt.Errorf("invalid business type: %q", s)
}

func (bt BusinessType) String() string {
	return string(bt)
}

// UnmarshalText implements encoding.TextUnmarshaler so fixtures and payloads
// are validated on decode.
func (bt *BusinessType) UnmarshalText(text []byte) error {
	parsed, err := ParseBusinessType(string(text))
	if err != nil {
		return err
	}
	*bt = parsed
	return nil
}
