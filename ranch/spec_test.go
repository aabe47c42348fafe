package ranch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/ranch/ranch"
)

func TestParseSpec(t *testing.T) {
	spec := loadSpec(t)

	assert.Equal(t, []string{"CN", "FR", "NL", "US"}, spec.Countries())
	assert.Equal(t, "%N%n%O%n%A%n%C", spec.Details.Format())

	us, ok := spec.Sub("US")
	require.True(t, ok)
	assert.True(t, us.Details.HasSubKeys())
	assert.Equal(t, map[string]string{"CA": "California", "NY": "New York"}, us.Options())

	_, ok = spec.Sub("XX")
	assert.False(t, ok)
}

func TestParseSpecRejects(t *testing.T) {
	cases := map[string]string{
		"malformed":    `{"details": `,
		"no countries": `{"details": {"fmt": "%A"}, "subs": {}}`,
		"bad zip":      `{"details": {}, "subs": {"AA": {"details": {"zip": "(\\d{5}"}, "subs": {}}}}`,
		"nested zip":   `{"details": {}, "subs": {"AA": {"details": {}, "subs": {"B": {"details": {"zip": "[0-"}}}}}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ranch.ParseSpec([]byte(doc))
			require.Error(t, err)
			assert.True(t, ranch.IsKind(err, ranch.ErrSpec), err.Error())
		})
	}
}

func TestDetailsStringifiesScalars(t *testing.T) {
	doc := `{"details": {"fmt": "%C", "weight": 3, "flag": true, "gone": null, "list": [1]},
		"subs": {"AA": {"details": {"name": "A"}}}}`
	spec, err := ranch.ParseSpec([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, ranch.Details{"fmt": "%C", "weight": "3", "flag": "true"}, spec.Details)
}

func TestDetailsCodeLists(t *testing.T) {
	d := ranch.Details{"require": "ACZ", "upper": "C"}
	assert.True(t, d.Requires(ranch.StreetAddress))
	assert.True(t, d.Requires(ranch.PostalCode))
	assert.False(t, d.Requires(ranch.Name))
	assert.True(t, d.Uppercases(ranch.City))
	assert.False(t, d.Uppercases(ranch.StreetAddress))
}
