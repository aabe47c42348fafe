package ranch

import (
	"sort"
	"strings"
)

// FieldDescriptor describes one field a form should currently present.
// Options is nil when the field takes free text.
type FieldDescriptor struct {
	Key      Field             `json:"key"`
	Label    string            `json:"label"`
	Required bool              `json:"required"`
	Options  map[string]string `json:"options"`
}

// FieldTypes returns the fields that are known about given the values set so
// far. Fields offering choices come first, in topological order; the rest
// follow in the order they appear in the output format.
//
// Discovery stops at the first field that offers choices but has no value
// yet, since the fields after it depend on the choice made.
func (a *Address) FieldTypes() []FieldDescriptor {
	fields := []FieldDescriptor{{
		Key:      Country,
		Label:    Country.Label(),
		Required: true,
		Options:  a.defaults.options(),
	}}

	specs := a.Specs()
	format, ok := specs[KeyFormat]
	if !ok {
		return fields
	}

	chain := a.formatChain(format)
	completed := true
	for depth := 1; depth < len(chain); depth++ {
		part := chain[depth]
		parentPart := chain[depth-1]
		parent, parentSet := a.fields[parentPart]

		if fields[depth-1].Options != nil && !parentSet {
			completed = false
			break
		}

		var options map[string]string
		if parentSet && parent.HasChoices() {
			options = parent.options()
		}

		label := part.Label()
		if part == AdminArea {
			label = defaultStateNameType
			if t, ok := parent.Details[KeyStateNameType]; ok {
				label = t
			}
		}

		fields = append(fields, FieldDescriptor{
			Key:      part,
			Label:    label,
			Required: specs.Requires(part),
			Options:  options,
		})
	}

	if completed {
		for _, code := range []Field{PostalCode, SortingCode} {
			if containsPlaceholder(format, code) {
				fields = append(fields, FieldDescriptor{
					Key:      code,
					Label:    code.Label(),
					Required: specs.Requires(code),
				})
			}
		}
	}

	positions := placeholderPositions(format)
	rank := make(map[Field]int, len(fields))
	for i, fd := range fields {
		if fd.Options != nil {
			rank[fd.Key] = i - len(fields)
		} else {
			rank[fd.Key] = positions[fd.Key]
		}
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return rank[fields[i].Key] < rank[fields[j].Key]
	})
	return fields
}

func (fv FieldValue) options() map[string]string {
	return optionsOf(fv.Subs)
}

func containsPlaceholder(format string, f Field) bool {
	return strings.Contains(format, f.Placeholder())
}

// placeholderPositions maps each field to the index of its first placeholder
// among all field placeholders in format. Country ranks after all of them.
func placeholderPositions(format string) map[Field]int {
	pos := map[Field]int{}
	n := 0
	for i := 0; i < len(format)-1; i++ {
		if format[i] != '%' {
			continue
		}
		f, ok := fieldForCode(format[i+1])
		i++
		if !ok {
			continue
		}
		if _, seen := pos[f]; !seen {
			pos[f] = n
		}
		n++
	}
	if _, seen := pos[Country]; !seen {
		pos[Country] = n
	}
	return pos
}
