package status

import "strings"

// operatorPrefix is the embedded tag that piggybacks an operator identity onto
// the event note field without a schema change.
const operatorPrefix = "[op:"

// BuildNote combines an optional free-text note and an optional operator label
// into one note field, using the "[op:<label>] <text>" convention. Returns nil
// when both are empty.
func BuildNote(note, operatorLabel string) *string {
	operator := strings.TrimSpace(operatorLabel)
	plain := strings.TrimSpace(note)

	switch {
	case operator == "" && plain == "":
		return nil
	case operator != "" && plain != "":
		s := operatorPrefix + operator + "] " + plain
		return &s
	case operator != "":
		s := operatorPrefix + operator + "]"
		return &s
	default:
		return &plain
	}
}

// ParseNote splits a note into its operator label and remaining text. A note
// that does not start with the operator tag is passed through verbatim as
// plain text with a nil operator, so BuildNote/ParseNote round-trip.
func ParseNote(note *string) (operatorLabel *string, noteText *string) {
	if note == nil || *note == "" {
		return nil, nil
	}

	s := *note
	if strings.HasPrefix(s, operatorPrefix) {
		closeIdx := strings.Index(s, "]")
		if closeIdx > len(operatorPrefix) {
			operator := strings.TrimSpace(s[len(operatorPrefix):closeIdx])
			trailing := strings.TrimSpace(s[closeIdx+1:])
			if operator != "" {
				operatorLabel = &operator
			}
			if trailing != "" {
				noteText = &trailing
			}
			return operatorLabel, noteText
		}
	}

	return nil, &s
}
