package ranch_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonibytes/ranch/ranch"
)

func TestFieldTypesWithoutCountry(t *testing.T) {
	a, err := ranch.New(loadSpec(t), nil)
	require.NoError(t, err)

	fds := a.FieldTypes()
	require.Len(t, fds, 1)
	assert.Equal(t, ranch.FieldDescriptor{
		Key:      ranch.Country,
		Label:    "country",
		Required: true,
		Options: map[string]string{
			"CN": "CHINA",
			"FR": "FRANCE",
			"NL": "NETHERLANDS",
			"US": "UNITED STATES",
		},
	}, fds[0])
}

func TestFieldTypesWithoutFormat(t *testing.T) {
	spec := singleCountry("AA", ranch.Details{"require": "A"})
	a, err := ranch.New(spec, map[ranch.Field]string{ranch.Country: "AA"})
	require.NoError(t, err)

	assert.Equal(t, []ranch.Field{ranch.Country}, keys(a.FieldTypes()))
}

func TestFieldTypesStopAtUnansweredChoice(t *testing.T) {
	a, err := ranch.New(loadSpec(t), map[ranch.Field]string{ranch.Country: "US"})
	require.NoError(t, err)

	fds := a.FieldTypes()
	assert.Equal(t, []ranch.Field{ranch.Country, ranch.AdminArea}, keys(fds))

	state := descriptor(t, fds, ranch.AdminArea)
	assert.Equal(t, "state", state.Label)
	assert.True(t, state.Required)
	assert.Equal(t, map[string]string{"CA": "California", "NY": "New York"}, state.Options)
}

func TestFieldTypesOrderedByFormat(t *testing.T) {
	spec := loadSpec(t)

	t.Run("US", func(t *testing.T) {
		a, err := ranch.New(spec, map[ranch.Field]string{ranch.Country: "US", ranch.AdminArea: "CA"})
		require.NoError(t, err)

		fds := a.FieldTypes()
		assert.Equal(t, []ranch.Field{
			ranch.Country,
			ranch.AdminArea,
			ranch.Name,
			ranch.Organisation,
			ranch.StreetAddress,
			ranch.City,
			ranch.PostalCode,
		}, keys(fds))
		assert.Nil(t, descriptor(t, fds, ranch.City).Options)
		assert.True(t, descriptor(t, fds, ranch.PostalCode).Required)
		assert.False(t, descriptor(t, fds, ranch.Name).Required)
		assert.Equal(t, "street address", descriptor(t, fds, ranch.StreetAddress).Label)
	})

	t.Run("NL", func(t *testing.T) {
		a, err := ranch.New(spec, map[ranch.Field]string{ranch.Country: "NL"})
		require.NoError(t, err)

		assert.Equal(t, []ranch.Field{
			ranch.Country,
			ranch.Organisation,
			ranch.Name,
			ranch.StreetAddress,
			ranch.PostalCode,
			ranch.City,
		}, keys(a.FieldTypes()))
	})

	t.Run("FR has a sorting code", func(t *testing.T) {
		a, err := ranch.New(spec, map[ranch.Field]string{ranch.Country: "FR"})
		require.NoError(t, err)

		fds := a.FieldTypes()
		assert.Equal(t, []ranch.Field{
			ranch.Country,
			ranch.Organisation,
			ranch.Name,
			ranch.StreetAddress,
			ranch.PostalCode,
			ranch.City,
			ranch.SortingCode,
		}, keys(fds))
		sorting := descriptor(t, fds, ranch.SortingCode)
		assert.Equal(t, "sorting code", sorting.Label)
		assert.False(t, sorting.Required)
		assert.Nil(t, sorting.Options)
	})
}

func TestFieldTypesWalkDownChoices(t *testing.T) {
	spec := loadSpec(t)
	steps := []struct {
		field ranch.Field
		value string
		want  []ranch.Field
	}{
		{ranch.Country, "CN", []ranch.Field{ranch.Country, ranch.AdminArea}},
		{ranch.AdminArea, "Guangdong Sheng", []ranch.Field{ranch.Country, ranch.AdminArea, ranch.City}},
		{ranch.City, "Shenzhen Shi", []ranch.Field{ranch.Country, ranch.AdminArea, ranch.City, ranch.DependentLocality}},
		{ranch.DependentLocality, "Nanshan Qu", []ranch.Field{
			ranch.Country, ranch.AdminArea, ranch.City, ranch.DependentLocality,
			ranch.PostalCode, ranch.StreetAddress, ranch.Organisation, ranch.Name,
		}},
	}

	a, err := ranch.New(spec, nil)
	require.NoError(t, err)
	for _, step := range steps {
		require.NoError(t, a.SetField(step.field, step.value))
		fds := a.FieldTypes()
		assert.Equal(t, step.want, keys(fds), "after %s", step.field)
		assertNoFieldPastOpenChoice(t, a, fds)
	}

	fds := a.FieldTypes()
	assert.Equal(t, map[string]string{"Futian Qu": "Futian Qu", "Nanshan Qu": "Nanshan District"},
		descriptor(t, fds, ranch.DependentLocality).Options)
	assert.Equal(t, map[string]string{"Guangzhou Shi": "Guangzhou Shi", "Shenzhen Shi": "Shenzhen Shi"},
		descriptor(t, fds, ranch.City).Options)
	assert.Equal(t, "province", descriptor(t, fds, ranch.AdminArea).Label)
}

// assertNoFieldPastOpenChoice checks that every emitted field follows, in
// the format's significance chain, a field that is either set or free text.
func assertNoFieldPastOpenChoice(t *testing.T, a *ranch.Address, fds []ranch.FieldDescriptor) {
	t.Helper()
	format := a.Specs().Format()
	chain := []ranch.Field{ranch.Country}
	for _, f := range ranch.Significant()[1:] {
		if strings.Contains(format, f.Placeholder()) {
			chain = append(chain, f)
		}
	}
	emitted := map[ranch.Field]ranch.FieldDescriptor{}
	for _, fd := range fds {
		emitted[fd.Key] = fd
	}
	for i := 1; i < len(chain); i++ {
		if _, ok := emitted[chain[i]]; !ok {
			continue
		}
		parent := emitted[chain[i-1]]
		_, set := a.Get(chain[i-1])
		assert.True(t, set || parent.Options == nil,
			"%s emitted while %s has open choices", chain[i], chain[i-1])
	}
}
