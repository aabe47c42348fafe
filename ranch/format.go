package ranch

import (
	"strings"
	"unicode"
)

const newlineToken = "%n"

// Render formats the address according to the effective spec details and
// appends the country's display name on its own line. Blank lines are removed.
func (a *Address) Render() (string, error) {
	specs := a.Specs()

	for _, f := range Fields() {
		if _, ok := a.fields[f]; !ok && specs.Requires(f) {
			return "", MissingFieldError(f)
		}
	}
	country, ok := a.fields[Country]
	if !ok {
		return "", MissingFieldError(Country)
	}

	format := strings.ReplaceAll(specs.Format(), newlineToken, "\n")

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		f, known := fieldForCode(format[i+1])
		if !known {
			b.WriteByte(c)
			continue
		}
		i++
		fv, set := a.fields[f]
		if !set {
			continue
		}
		if specs.Uppercases(f) {
			b.WriteString(strings.ToUpper(fv.Value))
		} else {
			b.WriteString(fv.Value)
		}
	}

	name := country.Details.Name()
	if name == "" {
		name = country.Value
	}
	b.WriteString("\n")
	b.WriteString(name)

	return collapseBlankLines(b.String()), nil
}

// String implements fmt.Stringer; it is empty when Render fails.
func (a *Address) String() string {
	s, err := a.Render()
	if err != nil {
		return ""
	}
	return s
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimRightFunc(l, unicode.IsSpace)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
