package provider

import (
	"go/token"
	"go/types"

	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/rules"
)

var _ rules.Relations = (*Result)(nil)

// Result holds declarations of a package and relations between its types.
// It is read-only after Collect returns.
type Result struct {
	Decls []facts.Declaration

	local      []*types.TypeName
	contracts  map[facts.TypeID]bool
	subs       map[facts.TypeID][]rules.SubType
	unresolved int
}

func newResult() *Result {
	return &Result{
		contracts: map[facts.TypeID]bool{},
		subs:      map[facts.TypeID][]rules.SubType{},
	}
}

// SubTypes returns direct sub-types of a type in declaration order.
func (r *Result) SubTypes(id facts.TypeID) []rules.SubType {
	return r.subs[id]
}

// IsContract tells whether a type declared in the package has the contract marker.
// Types of other packages are unknown.
func (r *Result) IsContract(id facts.TypeID) (contract bool, known bool) {
	contract, known = r.contracts[id]
	return contract, known
}

// Unresolved returns the number of annotation arguments that could not be evaluated.
func (r *Result) Unresolved() int {
	return r.unresolved
}

func (r *Result) add(decl facts.Declaration, tn *types.TypeName) {
	r.Decls = append(r.Decls, decl)
	r.local = append(r.local, tn)

	var contract bool
	for _, a := range decl.Annotations {
		if a.Kind == facts.KindContract {
			contract = true
			break
		}
	}
	r.contracts[decl.Type] = contract
}

// link computes base/sub-type edges between local types.
func (r *Result) link(pkg *types.Package) {
	for _, tn := range r.local {
		base, pos := baseOf(tn, pkg)
		if base == nil {
			continue
		}
		baseID := facts.MakeTypeID(pkg.Path(), base.Name())
		r.subs[baseID] = append(r.subs[baseID], rules.SubType{
			Type: facts.MakeTypeID(pkg.Path(), tn.Name()),
			Pos:  pos,
		})
	}
}

// baseOf returns the direct base of a struct type: its first embedded struct type
// declared in pkg. pos points at the embedded field.
func baseOf(tn *types.TypeName, pkg *types.Package) (*types.TypeName, token.Pos) {
	st, ok := tn.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, token.NoPos
	}

	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		t := f.Type()
		if ptr, ok := t.(*types.Pointer); ok {
			t = ptr.Elem()
		}
		named, ok := t.(*types.Named)
		if !ok {
			continue
		}
		obj := named.Origin().Obj()
		if obj.Pkg() != pkg || obj == tn {
			continue
		}
		if _, ok := named.Underlying().(*types.Struct); !ok {
			continue
		}

		return obj, f.Pos()
	}

	return nil, token.NoPos
}
