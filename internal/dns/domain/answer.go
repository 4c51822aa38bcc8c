package domain

// Answer is one element of an upstream dns-json Answer array. Upstream bodies
// are loosely specified, so both members are optional: Type is nil when the
// element has no "type" member, Data is nil when "data" is absent or not a
// JSON string. The selector decides what to do with incomplete elements.
type Answer struct {
	Type *RRType
	Data *string
}

// NewAnswer constructs a complete Answer. Mostly a test convenience.
func NewAnswer(rrtype RRType, data string) Answer {
	return Answer{
		Type: &rrtype,
		Data: &data,
	}
}
