package ranch

import (
	"io"
	"log/slog"
)

// Address holds the values filled in so far for one address and knows, from
// the spec tree, which fields come next and how to format the result.
//
// An Address is meant for a single entry session and is not safe for
// concurrent mutation. The Spec it reads from may be shared freely.
type Address struct {
	spec     *Spec
	defaults FieldValue
	fields   map[Field]FieldValue
	logger   *slog.Logger
}

type Option func(*Address)

// WithLogger makes the address log rejected values and cascades at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(a *Address) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an address backed by spec. Initial values are applied from the
// largest division down, followed by the code fields, whatever the map order.
func New(spec *Spec, values map[Field]string, opts ...Option) (*Address, error) {
	if spec == nil {
		return nil, SpecError("nil spec tree")
	}
	a := &Address{
		spec:     spec,
		defaults: newFieldValue("", spec),
		fields:   map[Field]FieldValue{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(a)
	}
	for _, f := range Ordered() {
		v, ok := values[f]
		if !ok {
			continue
		}
		if err := a.SetField(f, v); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Get returns the value set for f.
func (a *Address) Get(f Field) (string, bool) {
	fv, ok := a.fields[f]
	return fv.Value, ok
}

// Value returns the full FieldValue set for f.
func (a *Address) Value(f Field) (FieldValue, bool) {
	fv, ok := a.fields[f]
	return fv, ok
}

// Values returns a copy of the set values.
func (a *Address) Values() map[Field]string {
	out := make(map[Field]string, len(a.fields))
	for f, fv := range a.fields {
		out[f] = fv.Value
	}
	return out
}

// Specs returns the effective spec details: the root defaults overridden by
// the details of every set field, most specific last. It is recomputed on
// every call.
func (a *Address) Specs() Details {
	return effectiveSpecs(a.defaults, a.fields)
}

func effectiveSpecs(defaults FieldValue, fields map[Field]FieldValue) Details {
	out := defaults.Details.clone()
	for _, f := range Ordered() {
		fv, ok := fields[f]
		if !ok {
			continue
		}
		for k, v := range fv.Details {
			out[k] = v
		}
	}
	return out
}

// SetField validates value for f and stores it. On error the address is left
// exactly as it was.
func (a *Address) SetField(f Field, value string) error {
	if err := a.checkParent(f); err != nil {
		a.logger.Debug("field rejected", slog.String("field", f.String()), slog.String("error", err.Error()))
		return err
	}

	var chosen *Spec
	depth := f.depth()
	if depth >= 0 {
		var relevant FieldValue
		found := false
		if depth == 0 {
			relevant, found = a.defaults, true
		} else {
			relevant, found = a.fields[Significant()[depth-1]]
		}
		if found && (depth == 0 || relevant.Details.HasSubKeys()) {
			sub, ok := relevant.Subs[value]
			if !ok || sub == nil {
				a.logger.Debug("value not among choices", slog.String("field", f.String()), slog.String("value", value))
				return InvalidAddressError(f, "\""+value+"\" is not a valid value for field "+f.String())
			}
			chosen = sub
		}
	}

	if !a.validateField(f, value) {
		return InvalidAddressError(f, "a value is required for field "+f.String())
	}
	if f == PostalCode && !a.ValidPostalCode(value) {
		return InvalidAddressError(f, "invalid postal code")
	}

	next := make(map[Field]FieldValue, len(a.fields)+1)
	old, had := a.fields[f]
	if had && old.HasChoices() && depth >= 0 {
		pos := f.significance()
		for k, v := range a.fields {
			if k.significance() <= pos {
				next[k] = v
			}
		}
		if len(next) < len(a.fields) {
			a.logger.Debug("cleared dependent fields", slog.String("field", f.String()), slog.Int("removed", len(a.fields)-len(next)))
		}
	} else {
		for k, v := range a.fields {
			next[k] = v
		}
	}
	next[f] = newFieldValue(value, chosen)

	if pc, ok := next[PostalCode]; ok && !validPostalCode(a.defaults, next, pc.Value) {
		return InvalidAddressError(PostalCode, "invalid postal code")
	}

	a.fields = next
	return nil
}

// checkParent rejects fields whose position in the address cannot be known
// yet: anything but the country before a country is chosen, and a field
// following one whose choices have not been answered.
func (a *Address) checkParent(f Field) error {
	if !f.Valid() {
		return NewError(ErrInvalidField, "unknown field "+f.String())
	}
	if f == Country {
		return nil
	}
	if _, ok := a.fields[Country]; !ok {
		return InvalidFieldError(f, "country must be set before "+f.String())
	}
	if f.IsCode() {
		return nil
	}
	chain := a.formatChain(a.Specs().Format())
	for i, part := range chain {
		if part != f {
			continue
		}
		parent := chain[i-1]
		if _, set := a.fields[parent]; !set && a.offersChoices(chain, i-1) {
			return InvalidFieldError(f, parent.String()+" must be chosen before "+f.String())
		}
		break
	}
	return nil
}

// formatChain returns the significant fields present in format. Country is
// always first.
func (a *Address) formatChain(format string) []Field {
	chain := []Field{Country}
	for _, f := range Significant()[1:] {
		if containsPlaceholder(format, f) {
			chain = append(chain, f)
		}
	}
	return chain
}

// offersChoices reports whether chain[i] presents a closed set of options.
func (a *Address) offersChoices(chain []Field, i int) bool {
	if i == 0 {
		return true
	}
	prev, ok := a.fields[chain[i-1]]
	return ok && prev.HasChoices()
}

func (a *Address) validateField(f Field, value string) bool {
	return validateField(a.Specs(), f, value)
}

func validateField(specs Details, f Field, value string) bool {
	return !specs.Requires(f) || value != ""
}

// IsValid reports whether every required field is set, every set field
// passes validation and the postal code, if any, matches its patterns.
func (a *Address) IsValid() bool {
	specs := a.Specs()
	for i := 0; i < len(specs.Require()); i++ {
		f, known := fieldForCode(specs.Require()[i])
		if !known {
			continue
		}
		if _, ok := a.fields[f]; !ok {
			return false
		}
	}
	for f, fv := range a.fields {
		if !validateField(specs, f, fv.Value) {
			return false
		}
	}
	if _, ok := a.fields[PostalCode]; ok {
		return a.HasValidPostalCode()
	}
	return true
}
