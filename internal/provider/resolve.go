package provider

import (
	"go/ast"
	"go/constant"
	"go/types"
	"strconv"
	"strings"

	"github.com/sirkon/protoguard/internal/facts"
)

// fileScope resolves identifiers written in directives and struct tags of one file.
type fileScope struct {
	pkg     *types.Package
	imports map[string]*types.Package
}

func newFileScope(pkg *types.Package, info *types.Info, file *ast.File) *fileScope {
	s := &fileScope{
		pkg:     pkg,
		imports: map[string]*types.Package{},
	}

	for _, spec := range file.Imports {
		var obj types.Object
		if spec.Name != nil {
			obj = info.Defs[spec.Name]
		} else {
			obj = info.Implicits[spec]
		}
		pn, ok := obj.(*types.PkgName)
		if !ok {
			continue
		}
		s.imports[pn.Name()] = pn.Imported()
	}

	return s
}

// lookup finds an object named either "Name" in the package scope or "pkg.Name"
// in an imported package.
func (s *fileScope) lookup(name string) types.Object {
	if s == nil || s.pkg == nil {
		return nil
	}

	pkgName, objName, qualified := strings.Cut(name, ".")
	if !qualified {
		return s.pkg.Scope().Lookup(name)
	}

	imported, ok := s.imports[pkgName]
	if !ok || imported == nil {
		return nil
	}
	obj := imported.Scope().Lookup(objName)
	if obj == nil || !obj.Exported() {
		return nil
	}

	return obj
}

// number resolves an integer literal or the name of an integer constant.
func (s *fileScope) number(tok string) facts.Value {
	if n, err := strconv.ParseInt(tok, 0, 64); err == nil {
		return facts.Int(n)
	}

	c, ok := s.lookup(tok).(*types.Const)
	if !ok {
		return facts.Unresolved()
	}
	v := constant.ToInt(c.Val())
	if v.Kind() != constant.Int {
		return facts.Unresolved()
	}
	n, exact := constant.Int64Val(v)
	if !exact {
		return facts.Unresolved()
	}

	return facts.Int(n)
}

// value resolves a directive word: quoted strings are strings, everything else is
// tried as a number, a boolean, then as a constant of either kind.
func (s *fileScope) value(t word) facts.Value {
	if t.quoted {
		return facts.String(t.text)
	}
	if v := s.number(t.text); v.Kind != facts.ValueUnresolved {
		return v
	}
	if b, err := strconv.ParseBool(t.text); err == nil {
		return facts.Bool(b)
	}

	c, ok := s.lookup(t.text).(*types.Const)
	if !ok {
		return facts.Unresolved()
	}
	switch c.Val().Kind() {
	case constant.String:
		return facts.String(constant.StringVal(c.Val()))
	case constant.Bool:
		return facts.Bool(constant.BoolVal(c.Val()))
	default:
		return facts.Unresolved()
	}
}

// typeID resolves a type name to its identity.
func (s *fileScope) typeID(name string) (facts.TypeID, bool) {
	tn, ok := s.lookup(name).(*types.TypeName)
	if !ok || tn.Pkg() == nil {
		return "", false
	}

	return facts.MakeTypeID(tn.Pkg().Path(), tn.Name()), true
}
