package core

import "fmt"

// ValueKind tags the kind of literal a descriptor expression evaluated
// to. The only values a rule call's keyword arguments can carry are
// strings, integers, booleans, lists of values, and the absence of a
// value.
type ValueKind int

// The kinds of Value a descriptor expression may evaluate to.
const (
	KindNone ValueKind = iota
	KindString
	KindInt
	KindBool
	KindList
)

// A Value is one argument value passed to a rule function by the
// Descriptor Evaluator. It's a tagged union rather than an interface{}
// so rule functions (in rules/python, rules/debian, ...) can switch on
// Kind without a type assertion on every access.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
	Bool bool
	List []Value
}

// None is the zero Value, used when a keyword argument was not supplied.
var None = Value{Kind: KindNone}

// StringValue constructs a string-kinded Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntValue constructs an int-kinded Value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// BoolValue constructs a bool-kinded Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ListValue constructs a list-kinded Value.
func ListValue(items ...Value) Value { return Value{Kind: KindList, List: items} }

// IsNone reports whether this value is the absence of one.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// AsString returns the value's string, or "" if it isn't a string.
func (v Value) AsString() string {
	if v.Kind != KindString {
		return ""
	}
	return v.Str
}

// AsStringList returns the value's elements as strings: a single
// string value is treated as a one-element list, matching the
// permissive way the original descriptor language accepts either a bare
// string or a list wherever a set of paths is expected (e.g. deps=,
// srcs=). A None value yields an empty list.
func (v Value) AsStringList() []string {
	switch v.Kind {
	case KindNone:
		return nil
	case KindString:
		return []string{v.Str}
	case KindList:
		out := make([]string, 0, len(v.List))
		for _, item := range v.List {
			out = append(out, item.AsString())
		}
		return out
	default:
		return nil
	}
}

// AsBool returns the value's bool, or false if it isn't one.
func (v Value) AsBool() bool {
	return v.Kind == KindBool && v.Bool
}

func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "None"
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindList:
		return fmt.Sprintf("%v", v.List)
	default:
		return "<invalid>"
	}
}

// Kwargs is the keyword-argument set a rule function is invoked with:
// e.g. {"name": StringValue("foo"), "deps": ListValue(...)}.
type Kwargs map[string]Value

// String looks up a string-kinded argument, returning def if absent or
// of the wrong kind.
func (k Kwargs) String(name, def string) string {
	v, ok := k[name]
	if !ok || v.Kind != KindString {
		return def
	}
	return v.Str
}

// StringList looks up a list-or-string-kinded argument.
func (k Kwargs) StringList(name string) []string {
	return k[name].AsStringList()
}

// Bool looks up a bool-kinded argument, returning def if absent or of
// the wrong kind.
func (k Kwargs) Bool(name string, def bool) bool {
	v, ok := k[name]
	if !ok || v.Kind != KindBool {
		return def
	}
	return v.Bool
}
