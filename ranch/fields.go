package ranch

import (
	"fmt"
	"strings"
)

// Field is one of the address parts a country format can reference.
type Field int

// Declaration order matters: Significant reverses it and Render walks it.
const (
	Name Field = iota
	Organisation
	StreetAddress
	DependentLocality
	City
	AdminArea
	PostalCode
	SortingCode

	// Country has no placeholder in the formats; its code is made up.
	Country
)

var fieldNames = [...]string{
	Name:              "name",
	Organisation:      "organisation",
	StreetAddress:     "street_address",
	DependentLocality: "dependent_locality",
	City:              "city",
	AdminArea:         "admin_area",
	PostalCode:        "postal_code",
	SortingCode:       "sorting_code",
	Country:           "country",
}

var fieldCodes = [...]byte{
	Name:              'N',
	Organisation:      'O',
	StreetAddress:     'A',
	DependentLocality: 'D',
	City:              'C',
	AdminArea:         'S',
	PostalCode:        'Z',
	SortingCode:       'X',
	Country:           '0',
}

// Fields returns every field in declaration order.
func Fields() []Field {
	return []Field{Name, Organisation, StreetAddress, DependentLocality, City, AdminArea, PostalCode, SortingCode, Country}
}

// Significant returns the topological fields, largest division first.
// Postal and sorting code are left out since they are independent of the others.
func Significant() []Field {
	all := Fields()
	out := make([]Field, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].IsCode() {
			out = append(out, all[i])
		}
	}
	return out
}

// Ordered returns Significant followed by the code fields. It is the order
// used for bulk construction, spec merging and cascading invalidation.
func Ordered() []Field {
	return append(Significant(), PostalCode, SortingCode)
}

func (f Field) Valid() bool {
	return f >= Name && f <= Country
}

// IsCode reports whether f is postal_code or sorting_code.
func (f Field) IsCode() bool {
	switch f {
	case PostalCode, SortingCode:
		return true
	default:
		return false
	}
}

func (f Field) Code() byte {
	if !f.Valid() {
		return 0
	}
	return fieldCodes[f]
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

func (f Field) Label() string {
	return strings.ReplaceAll(f.String(), "_", " ")
}

// Placeholder is the token standing for f in a format string, e.g. "%C".
func (f Field) Placeholder() string {
	return "%" + string(f.Code())
}

// significance is f's position in Ordered, or -1.
func (f Field) significance() int {
	for i, o := range Ordered() {
		if o == f {
			return i
		}
	}
	return -1
}

// depth is f's position in Significant, or -1 for the code fields.
func (f Field) depth() int {
	if f.IsCode() {
		return -1
	}
	return f.significance()
}

func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid field %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(b []byte) error {
	parsed, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseField accepts a field name ("admin_area") or its single character code ("S").
func ParseField(s string) (Field, error) {
	for _, f := range Fields() {
		if s == f.String() || (len(s) == 1 && s[0] == f.Code()) {
			return f, nil
		}
	}
	return 0, NewError(ErrInvalidField, fmt.Sprintf("unknown field %q", s))
}

func fieldForCode(c byte) (Field, bool) {
	for _, f := range Fields() {
		if f.Code() == c {
			return f, true
		}
	}
	return 0, false
}
