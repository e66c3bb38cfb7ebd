package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ConditionType names the subject attribute a conditional rule inspects. It
// is a closed set: every variant declares the kind of value it compares, and
// unknown names are rejected by ParseConditionType.
type ConditionType string

const (
	ConditionMaritalStatus ConditionType = "marital_status"
	ConditionHasDependents ConditionType = "has_dependents"
	ConditionRole          ConditionType = "role"
	ConditionHasExtension  ConditionType = "has_extension"
)

// ValueKind is the type of a condition or attribute value.
type ValueKind int

const (
	KindString ValueKind = iota + 1
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Marital statuses accepted for ConditionMaritalStatus.
const (
	MaritalSingle      = "single"
	MaritalMarried     = "married"
	MaritalDivorced    = "divorced"
	MaritalWidowed     = "widowed"
	MaritalStableUnion = "stable_union"
)

type conditionSpec struct {
	kind    ValueKind
	allowed map[string]bool // nil means any non-empty string
}

// conditionSpecs is the single source of truth for supported condition types.
var conditionSpecs = map[ConditionType]conditionSpec{
	ConditionMaritalStatus: {kind: KindString, allowed: map[string]bool{
		MaritalSingle: true, MaritalMarried: true, MaritalDivorced: true,
		MaritalWidowed: true, MaritalStableUnion: true,
	}},
	ConditionHasDependents: {kind: KindBool},
	ConditionRole:          {kind: KindString},
	ConditionHasExtension:  {kind: KindBool},
}

// ParseConditionType validates a condition type name from external input.
func ParseConditionType(s string) (ConditionType, error) {
	ct := ConditionType(strings.TrimSpace(s))
	if !ct.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownConditionType, s)
	}
	return ct, nil
}

func (c ConditionType) IsKnown() bool {
	_, ok := conditionSpecs[c]
	return ok
}

// Kind returns the value kind compared by this condition, or 0 if unknown.
func (c ConditionType) Kind() ValueKind {
	return conditionSpecs[c].kind
}

func (c ConditionType) String() string {
	return string(c)
}

// accepts reports whether v is a legal value for the condition.
func (c ConditionType) accepts(v Value) bool {
	spec, ok := conditionSpecs[c]
	if !ok || v.kind != spec.kind {
		return false
	}
	if spec.kind == KindString {
		if v.str == "" {
			return false
		}
		if spec.allowed != nil && !spec.allowed[v.str] {
			return false
		}
	}
	return true
}

// Value is a typed attribute or condition value. The zero Value is invalid.
type Value struct {
	kind ValueKind
	str  string
	b    bool
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsValid() bool   { return v.kind == KindString || v.kind == KindBool }

// Bool reports the boolean held by v; false for string values.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// ParseValue converts a raw string into a value of the condition's kind.
func (c ConditionType) ParseValue(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	switch c.Kind() {
	case KindString:
		v := StringValue(raw)
		if !c.accepts(v) {
			return Value{}, fmt.Errorf("%w: value %q not allowed for %s", ErrMalformedRule, raw, c)
		}
		return v, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %s expects true/false, got %q", ErrMalformedRule, c, raw)
		}
		return BoolValue(b), nil
	default:
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownConditionType, c)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = StringValue(x)
	case bool:
		*v = BoolValue(x)
	default:
		return fmt.Errorf("value must be a string or boolean, got %s", string(b))
	}
	return nil
}

// ValueSet is an immutable set of values of a single kind.
type ValueSet struct {
	members map[Value]struct{}
	order   []Value
}

// NewValueSet builds a set preserving first-seen order; duplicates collapse.
func NewValueSet(values ...Value) ValueSet {
	s := ValueSet{members: make(map[Value]struct{}, len(values))}
	for _, v := range values {
		if _, dup := s.members[v]; dup {
			continue
		}
		s.members[v] = struct{}{}
		s.order = append(s.order, v)
	}
	return s
}

func (s ValueSet) Contains(v Value) bool {
	_, ok := s.members[v]
	return ok
}

func (s ValueSet) Len() int { return len(s.order) }

// Values returns the members in insertion order.
func (s ValueSet) Values() []Value {
	return append([]Value(nil), s.order...)
}

// Strings renders the members for storage and display.
func (s ValueSet) Strings() []string {
	out := make([]string, len(s.order))
	for i, v := range s.order {
		out[i] = v.String()
	}
	return out
}

func (s ValueSet) MarshalJSON() ([]byte, error) {
	if s.order == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.order)
}

func (s *ValueSet) UnmarshalJSON(b []byte) error {
	var values []Value
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	*s = NewValueSet(values...)
	return nil
}
