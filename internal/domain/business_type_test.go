package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBusinessType(t *testing.T) {
	bt, err := ParseBusinessType("Retail Trade")
	require.NoError(t, err)
	assert.Equal(t, RetailTrade, bt)

	_, err = ParseBusinessType("retail trade")
	assert.Error(t, err)
}

func TestBusinessType_UnmarshalJSON(t *testing.T) {
	var b Business
	err := json.Unmarshal([]byte(`{"name":"Cafe","businessType":"Accommodation and Food Services"}`), &b)
	require.NoError(t, err)
	assert.Equal(t, AccommodationAndFood, b.Type)

	err = json.Unmarshal([]byte(`{"name":"Cafe","businessType":"Mining"}`), &b)
	assert.Error(t, err)
}

func TestBusinessTypes_ReturnsCopy(t *testing.T) {
	types := BusinessTypes()
	types[0] = "changed"
	assert.Equal(t, AccommodationAndFood, BusinessTypes()[0])
}

func TestBusiness_FieldValue(t *testing.T) {
	b := Business{Name: "Countdown", Type: RetailTrade, Country: "New Zealand"}
	assert.Equal(t, "Retail Trade", b.FieldValue(FieldBusinessType))
	assert.Equal(t, "New Zealand", b.FieldValue(FieldBusinessCountry))
	assert.Nil(t, b.FieldValue("unknown"))
}

func TestListingBusinessIn(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	p := ListingBusinessIn([]uuid.UUID{a, b})

	assert.True(t, p.Matches(Listing{BusinessID: a}))
	assert.True(t, p.Matches(Listing{BusinessID: b}))
	assert.False(t, p.Matches(Listing{BusinessID: c}))
	assert.True(t, ListingBusinessIn(nil).IsAlways(false))
	assert.True(t, BusinessIn([]uuid.UUID{c}).Matches(Business{ID: c}))
}
