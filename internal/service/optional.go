package service

import "encoding/json"

// OptionalRef is a nullable foreign key in a partial update body. It
// distinguishes an absent field (keep the stored value) from an explicit
// null (clear the reference) from a concrete id.
type OptionalRef struct {
	Set   bool
	Value *uint
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalRef) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Ref wraps an id into a set OptionalRef, for callers assembling partial
// updates in code (tests, the barcode registration path).
func Ref(id uint) OptionalRef {
	return OptionalRef{Set: true, Value: &id}
}

// NullRef is a set OptionalRef holding an explicit null.
func NullRef() OptionalRef {
	return OptionalRef{Set: true}
}
