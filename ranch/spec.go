package ranch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Detail keys used by the address logic.
const (
	KeyFormat        = "fmt"
	KeyRequire       = "require"
	KeyUpper         = "upper"
	KeyZip           = "zip"
	KeyName          = "name"
	KeySubKeys       = "sub_keys"
	KeyStateNameType = "state_name_type"
)

// internalKeyMarker marks keys that are not user-selectable, e.g. "CA--fr".
const internalKeyMarker = "--"

const defaultStateNameType = "province"

// Details holds the properties of one spec tree node.
type Details map[string]string

func (d Details) Format() string  { return d[KeyFormat] }
func (d Details) Require() string { return d[KeyRequire] }
func (d Details) Upper() string   { return d[KeyUpper] }
func (d Details) Zip() string     { return d[KeyZip] }
func (d Details) Name() string    { return d[KeyName] }

func (d Details) HasSubKeys() bool {
	_, ok := d[KeySubKeys]
	return ok
}

// Requires reports whether f's code is in the require list.
func (d Details) Requires(f Field) bool {
	return strings.IndexByte(d.Require(), f.Code()) >= 0
}

// Uppercases reports whether f's code is in the upper list.
func (d Details) Uppercases(f Field) bool {
	return strings.IndexByte(d.Upper(), f.Code()) >= 0
}

func (d Details) clone() Details {
	out := make(Details, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// UnmarshalJSON accepts any scalar value and stores it as a string; nulls,
// arrays and objects are dropped.
func (d *Details) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Details, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 {
			continue
		}
		switch v[0] {
		case '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("details %q: %w", k, err)
			}
			out[k] = s
		case 't', 'f':
			out[k] = strconv.FormatBool(v[0] == 't')
		case 'n', '[', '{':
			// not representable as a detail
		default:
			out[k] = string(v)
		}
	}
	*d = out
	return nil
}

// Spec is a node of the spec tree. The root node carries the
// defaults and one sub per country; deeper nodes carry per-value overrides.
type Spec struct {
	Details Details          `json:"details"`
	Subs    map[string]*Spec `json:"subs"`
}

// ParseSpec decodes and validates a spec export.
func ParseSpec(b []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, Wrap(ErrSpec, "invalid spec JSON", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ToJSON serializes the spec tree.
func (s *Spec) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// Validate checks that the tree has at least one country and that every zip
// pattern compiles.
func (s *Spec) Validate() error {
	if s == nil || len(s.Subs) == 0 {
		return SpecError("spec must have at least one country")
	}
	return s.validate("")
}

func (s *Spec) validate(path string) error {
	if zip, ok := s.Details[KeyZip]; ok {
		if _, err := compileZip(zip, false); err != nil {
			return Wrap(ErrSpec, fmt.Sprintf("invalid zip pattern at %q", pathOrRoot(path)), err)
		}
	}
	for key, sub := range s.Subs {
		if sub == nil {
			return SpecError(fmt.Sprintf("empty node at %q", path+"/"+key))
		}
		if err := sub.validate(path + "/" + key); err != nil {
			return err
		}
	}
	return nil
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// Sub returns the child node for key.
func (s *Spec) Sub(key string) (*Spec, bool) {
	if s == nil {
		return nil, false
	}
	sub, ok := s.Subs[key]
	return sub, ok && sub != nil
}

// Countries returns the selectable country keys, sorted.
func (s *Spec) Countries() []string {
	if s == nil {
		return nil
	}
	return selectableKeys(s.Subs)
}

// Options maps each selectable sub key to its display name, falling back to
// the key itself.
func (s *Spec) Options() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	return optionsOf(s.Subs)
}

func selectableKeys(subs map[string]*Spec) []string {
	keys := make([]string, 0, len(subs))
	for k := range subs {
		if !strings.Contains(k, internalKeyMarker) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func optionsOf(subs map[string]*Spec) map[string]string {
	out := make(map[string]string, len(subs))
	for _, k := range selectableKeys(subs) {
		name := k
		if sub := subs[k]; sub != nil && sub.Details.Name() != "" {
			name = sub.Details.Name()
		}
		out[k] = name
	}
	return out
}
