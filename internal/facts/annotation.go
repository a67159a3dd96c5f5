// Package facts converts raw annotation instances supplied by an annotation provider
// into immutable per-type contract facts consumed by the rule sets.
package facts

import (
	"encoding"
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// TypeID is the identity of an analysed type: "<package path>.<type name>".
type TypeID string

// MakeTypeID builds a TypeID from a package path and a type name.
func MakeTypeID(pkgPath, name string) TypeID {
	if pkgPath == "" {
		return TypeID(name)
	}

	return TypeID(pkgPath + "." + name)
}

// Name returns the type name part of the identity.
func (id TypeID) Name() string {
	s := string(id)
	if i := strings.LastIndexByte(s, '.'); i >= 0 && i > strings.LastIndexByte(s, '/') {
		return s[i+1:]
	}

	return s
}

// Kind enumerates annotation kinds understood by the extractor.
type Kind int

const (
	KindInvalid Kind = iota

	// KindContract marks a type as a contract. Named arguments:
	// IgnoreUnknownSubTypes, SkipConstructor.
	KindContract

	// KindMember assigns a field number to a member: Args = [number], Named: Name.
	KindMember

	// KindPartialMember assigns a field number to a member by name from the type level:
	// Args = [number, member], Named: Name.
	KindPartialMember

	// KindInclude maps a field number to a sub-type: Args = [number, type id].
	KindInclude

	// KindReserved reserves a number, a range or a name: Args = [n], [lo, hi] or [name].
	KindReserved

	// KindIgnore suppresses a member by name: Args = [member].
	KindIgnore
)

var kindValueMap = map[Kind]string{
	KindContract:      "contract",
	KindMember:        "member",
	KindPartialMember: "partial",
	KindInclude:       "include",
	KindReserved:      "reserved",
	KindIgnore:        "ignore",
}

func (k Kind) String() string {
	v, ok := kindValueMap[k]
	if !ok {
		return fmt.Sprintf("invalid(%d)", k)
	}

	return v
}

var _ encoding.TextUnmarshaler = (*Kind)(nil)

// UnmarshalText for setting values with configs, CLI, etc.
func (k *Kind) UnmarshalText(rawtext []byte) error {
	text := strings.TrimSpace(string(rawtext))
	for kk, v := range kindValueMap {
		if v == text {
			*k = kk
			return nil
		}
	}

	return fmt.Errorf("unknown annotation kind %q", text)
}

// ValueKind tells what an annotation argument was resolved to.
type ValueKind int

const (
	ValueUnresolved ValueKind = iota
	ValueInt
	ValueString
	ValueBool
)

// Value is an annotation argument: a literal or a best-effort evaluated constant.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
	Bool bool
}

func Int(v int64) Value     { return Value{Kind: ValueInt, Int: v} }
func String(v string) Value { return Value{Kind: ValueString, Str: v} }
func Bool(v bool) Value     { return Value{Kind: ValueBool, Bool: v} }
func Unresolved() Value     { return Value{} }

// AsInt returns the integer value if the argument resolved to one.
func (v Value) AsInt() (int64, bool) {
	return v.Int, v.Kind == ValueInt
}

// AsString returns the string value if the argument resolved to one.
func (v Value) AsString() (string, bool) {
	return v.Str, v.Kind == ValueString
}

// AsBool returns the boolean value if the argument resolved to one.
func (v Value) AsBool() (bool, bool) {
	return v.Bool, v.Kind == ValueBool
}

func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "<unresolved>"
	}
}

// Annotation is a raw annotation instance as supplied by the annotation provider.
type Annotation struct {
	Kind Kind

	// Member is the annotated member for KindMember, empty for type-level annotations.
	Member string

	Args  []Value
	Named map[string]Value
	Pos   token.Pos
}

// Arg returns the positional argument i or an unresolved value if there is none.
func (a Annotation) Arg(i int) Value {
	if i < 0 || i >= len(a.Args) {
		return Unresolved()
	}

	return a.Args[i]
}

// NamedArg looks a named argument up case-insensitively.
func (a Annotation) NamedArg(name string) (Value, bool) {
	if v, ok := a.Named[name]; ok {
		return v, true
	}
	for k, v := range a.Named {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}

	return Value{}, false
}

// Member is a member of a type as seen by the annotation provider.
type Member struct {
	Name string
	Pos  token.Pos
}

// Constructor is a declared constructor of a type.
type Constructor struct {
	Name       string
	Params     int
	Accessible bool
	Pos        token.Pos
}

// Declaration is everything the annotation provider knows about one type.
type Declaration struct {
	Type TypeID
	Pos  token.Pos

	Annotations  []Annotation
	Members      []Member
	Constructors []Constructor
}
