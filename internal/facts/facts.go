package facts

import (
	"go/token"

	"github.com/sirkon/protoguard/internal/diag"
	"github.com/sirkon/protoguard/internal/pgrules"
)

// Origin tells how a field number was assigned to a member.
type Origin int

const (
	OriginDirect Origin = iota
	OriginPartial
)

// Field is a member with an assigned field number.
type Field struct {
	Owner TypeID

	// Member is the member name, Name is the effective (wire) name.
	Member string
	Name   string

	// Number is valid only when HasNumber is set: unresolvable numbers are kept
	// with HasNumber=false so that numbering rules skip the entry.
	Number    int64
	HasNumber bool

	Origin Origin
	Pos    token.Pos
}

// Reservation is either a reserved name or a reserved numeric range [Lo, Hi].
type Reservation struct {
	Owner  TypeID
	Name   string
	IsName bool
	Lo, Hi int64
	Pos    token.Pos
}

// Single reports whether a numeric reservation covers exactly one number.
func (r Reservation) Single() bool {
	return !r.IsName && r.Lo == r.Hi
}

// Contains reports whether a numeric reservation covers n.
func (r Reservation) Contains(n int64) bool {
	return !r.IsName && r.Lo <= n && n <= r.Hi
}

// Include maps a field number to a sub-type.
type Include struct {
	Owner TypeID

	// Target is empty if the sub-type could not be resolved.
	Target TypeID

	Number    int64
	HasNumber bool
	Pos       token.Pos
}

// Ignore suppresses a member.
type Ignore struct {
	Owner  TypeID
	Member string
	Pos    token.Pos
}

// ContractOptions are the options of a contract marker.
type ContractOptions struct {
	IgnoreUnknownSubTypes bool
	SkipConstructor       bool
}

// ContractFacts aggregates the annotations of one type. It never contains facts
// about other types: cross-type rules get them through a separate relational context.
type ContractFacts struct {
	Type TypeID
	Pos  token.Pos

	IsContract  bool
	ContractPos token.Pos
	Options     ContractOptions

	Fields       []Field
	Partials     []Field
	Includes     []Include
	Reservations []Reservation
	Ignores      []Ignore
	Constructors []Constructor

	// Annotated is set when the type carries any member, partial member, include or
	// reservation annotation, including ones dropped during extraction.
	Annotated bool
}

// Numbered is an entry of the numbering bucket.
type Numbered struct {
	Number int64
	Pos    token.Pos
}

// Bucket returns the numbering bucket of the type in declaration order: direct
// fields, partial members, then includes. Entries without a resolved number are
// left out.
func (f *ContractFacts) Bucket() []Numbered {
	res := make([]Numbered, 0, len(f.Fields)+len(f.Partials)+len(f.Includes))
	for _, fields := range [][]Field{f.Fields, f.Partials} {
		for _, fld := range fields {
			if fld.HasNumber {
				res = append(res, Numbered{Number: fld.Number, Pos: fld.Pos})
			}
		}
	}
	for _, inc := range f.Includes {
		if inc.HasNumber {
			res = append(res, Numbered{Number: inc.Number, Pos: inc.Pos})
		}
	}

	return res
}

// Extract converts the raw annotations of a declaration into ContractFacts.
// Partial member redirections naming unknown members produce MemberNotFound
// diagnostics and are excluded from the facts.
func Extract(decl Declaration) (ContractFacts, []diag.Diagnostic) {
	f := ContractFacts{
		Type:         decl.Type,
		Pos:          decl.Pos,
		Constructors: decl.Constructors,
	}

	members := make(map[string]struct{}, len(decl.Members))
	for _, m := range decl.Members {
		members[m.Name] = struct{}{}
	}

	var ds []diag.Diagnostic
	for _, a := range decl.Annotations {
		switch a.Kind {
		case KindContract:
			if f.IsContract {
				continue
			}
			f.IsContract = true
			f.ContractPos = a.Pos
			f.Options = extractOptions(a)

		case KindMember:
			f.Annotated = true
			f.Fields = append(f.Fields, extractField(decl.Type, a.Member, a, OriginDirect))

		case KindPartialMember:
			f.Annotated = true
			member, ok := a.Arg(1).AsString()
			if !ok {
				continue
			}
			if _, ok := members[member]; !ok {
				ds = append(ds, diag.New(pgrules.MemberNotFound(), decl.Type.Name(), a.Pos, member))
				continue
			}
			f.Partials = append(f.Partials, extractField(decl.Type, member, a, OriginPartial))

		case KindInclude:
			f.Annotated = true
			inc := Include{
				Owner: decl.Type,
				Pos:   a.Pos,
			}
			inc.Number, inc.HasNumber = a.Arg(0).AsInt()
			if target, ok := a.Arg(1).AsString(); ok {
				inc.Target = TypeID(target)
			}
			f.Includes = append(f.Includes, inc)

		case KindReserved:
			f.Annotated = true
			if r, ok := extractReservation(decl.Type, a); ok {
				f.Reservations = append(f.Reservations, r)
			}

		case KindIgnore:
			member, ok := a.Arg(0).AsString()
			if !ok {
				continue
			}
			f.Ignores = append(f.Ignores, Ignore{
				Owner:  decl.Type,
				Member: member,
				Pos:    a.Pos,
			})
		}
	}

	return f, ds
}

func extractOptions(a Annotation) ContractOptions {
	var opts ContractOptions
	if v, ok := a.NamedArg("IgnoreUnknownSubTypes"); ok {
		opts.IgnoreUnknownSubTypes, _ = v.AsBool()
	}
	if v, ok := a.NamedArg("SkipConstructor"); ok {
		opts.SkipConstructor, _ = v.AsBool()
	}

	return opts
}

func extractField(owner TypeID, member string, a Annotation, origin Origin) Field {
	fld := Field{
		Owner:  owner,
		Member: member,
		Name:   member,
		Origin: origin,
		Pos:    a.Pos,
	}
	fld.Number, fld.HasNumber = a.Arg(0).AsInt()
	if v, ok := a.NamedArg("Name"); ok {
		if name, ok := v.AsString(); ok && name != "" {
			fld.Name = name
		}
	}

	return fld
}

func extractReservation(owner TypeID, a Annotation) (Reservation, bool) {
	r := Reservation{
		Owner: owner,
		Pos:   a.Pos,
	}

	switch len(a.Args) {
	case 1:
		if name, ok := a.Args[0].AsString(); ok {
			r.Name = name
			r.IsName = true
			return r, true
		}
		n, ok := a.Args[0].AsInt()
		if !ok {
			return r, false
		}
		r.Lo, r.Hi = n, n
		return r, true

	case 2:
		lo, ok1 := a.Args[0].AsInt()
		hi, ok2 := a.Args[1].AsInt()
		if !ok1 || !ok2 {
			return r, false
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		r.Lo, r.Hi = lo, hi
		return r, true

	default:
		return r, false
	}
}
