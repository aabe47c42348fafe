package ranch_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/ranch/ranch"
)

func TestSignificantOrder(t *testing.T) {
	assert.Equal(t, []ranch.Field{
		ranch.Country,
		ranch.AdminArea,
		ranch.City,
		ranch.DependentLocality,
		ranch.StreetAddress,
		ranch.Organisation,
		ranch.Name,
	}, ranch.Significant())

	for _, f := range ranch.Significant() {
		assert.False(t, f.IsCode(), f.String())
	}
}

func TestOrderedAppendsCodeFields(t *testing.T) {
	ordered := ranch.Ordered()
	require.Len(t, ordered, 9)
	assert.Equal(t, []ranch.Field{ranch.PostalCode, ranch.SortingCode}, ordered[7:])
	// Calling twice must not share backing arrays.
	assert.Equal(t, ordered, ranch.Ordered())
}

func TestFieldCodesAndLabels(t *testing.T) {
	cases := map[ranch.Field]struct {
		code  byte
		label string
	}{
		ranch.Name:              {'N', "name"},
		ranch.Organisation:      {'O', "organisation"},
		ranch.StreetAddress:     {'A', "street address"},
		ranch.DependentLocality: {'D', "dependent locality"},
		ranch.City:              {'C', "city"},
		ranch.AdminArea:         {'S', "admin area"},
		ranch.PostalCode:        {'Z', "postal code"},
		ranch.SortingCode:       {'X', "sorting code"},
		ranch.Country:           {'0', "country"},
	}
	for f, want := range cases {
		assert.Equal(t, want.code, f.Code(), f.String())
		assert.Equal(t, want.label, f.Label())
	}
	assert.True(t, ranch.PostalCode.IsCode())
	assert.True(t, ranch.SortingCode.IsCode())
	assert.False(t, ranch.Field(42).Valid())
}

func TestParseField(t *testing.T) {
	f, err := ranch.ParseField("admin_area")
	require.NoError(t, err)
	assert.Equal(t, ranch.AdminArea, f)

	f, err = ranch.ParseField("Z")
	require.NoError(t, err)
	assert.Equal(t, ranch.PostalCode, f)

	_, err = ranch.ParseField("province")
	require.Error(t, err)
	assert.True(t, ranch.IsKind(err, ranch.ErrInvalidField))
}

func TestFieldJSONUsesNames(t *testing.T) {
	b, err := json.Marshal(map[string]ranch.Field{"key": ranch.StreetAddress})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"street_address"}`, string(b))

	var back struct {
		Key ranch.Field `json:"key"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"key":"city"}`), &back))
	assert.Equal(t, ranch.City, back.Key)
}
