package ranch

// FieldValue is a value chosen for one field together with the detail
// fragment and the sub-choices that value unlocked.
type FieldValue struct {
	Value   string
	Details Details
	Subs    map[string]*Spec
}

func newFieldValue(value string, chosen *Spec) FieldValue {
	fv := FieldValue{Value: value, Details: Details{}, Subs: map[string]*Spec{}}
	if chosen == nil {
		return fv
	}
	if chosen.Details != nil {
		fv.Details = chosen.Details
	}
	if chosen.Subs != nil {
		fv.Subs = chosen.Subs
	}
	return fv
}

// HasChoices reports whether the value unlocked sub-choices for the next field.
func (fv FieldValue) HasChoices() bool {
	return len(fv.Subs) > 0
}
