package ranch

import (
	"regexp"
	"sync"
)

type zipKey struct {
	pattern string
	prefix  bool
}

var zipCache sync.Map // zipKey -> *regexp.Regexp

// compileZip anchors pattern at the start, and at the end too unless prefix
// is set, so that MatchString behaves like a full or a prefix match.
func compileZip(pattern string, prefix bool) (*regexp.Regexp, error) {
	key := zipKey{pattern: pattern, prefix: prefix}
	if re, ok := zipCache.Load(key); ok {
		return re.(*regexp.Regexp), nil
	}
	expr := `^(?:` + pattern + `)`
	if !prefix {
		expr += `$`
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	zipCache.Store(key, re)
	return re, nil
}

func zipMatches(pattern string, code string, prefix bool) bool {
	re, err := compileZip(pattern, prefix)
	if err != nil {
		return false
	}
	return re.MatchString(code)
}

// HasValidPostalCode validates the stored postal code. It is false when no
// postal code is set.
func (a *Address) HasValidPostalCode() bool {
	fv, ok := a.fields[PostalCode]
	if !ok {
		return false
	}
	return a.ValidPostalCode(fv.Value)
}

// ValidPostalCode checks code against the current state of the address.
func (a *Address) ValidPostalCode(code string) bool {
	return validPostalCode(a.defaults, a.fields, code)
}

// validPostalCode requires a full match of the country level pattern and a
// prefix match of every narrower pattern unlocked by the other set fields.
func validPostalCode(defaults FieldValue, fields map[Field]FieldValue, code string) bool {
	pattern, ok := defaults.Details[KeyZip]
	if country, set := fields[Country]; set {
		if zip, has := country.Details[KeyZip]; has {
			pattern, ok = zip, true
		}
	}
	if ok && !zipMatches(pattern, code, false) {
		return false
	}
	for f, fv := range fields {
		if f == Country {
			continue
		}
		zip, has := fv.Details[KeyZip]
		if !has {
			continue
		}
		if !zipMatches(zip, code, true) {
			return false
		}
	}
	return true
}
