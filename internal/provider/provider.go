// Package provider turns Go source into annotation facts.
//
// Go has no attributes, so contract annotations are written as directive comments
// in type doc comments and as struct tags:
//
//	//protoguard:contract SkipConstructor
//	//protoguard:include 10 Circle
//	//protoguard:reserved 3 5
//	//protoguard:reserved "legacy"
//	//protoguard:partial 7 Hidden name=hidden
//	//protoguard:ignore Cache
//	type Shape struct {
//		Title string `proto:"1,name=title"`
//		Cache []byte
//		Hidden int
//	}
//
// Numbers are integer literals or names of integer constants. Values that can not
// be evaluated are passed on as unresolved.
package provider

import (
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/sirkon/protoguard/internal/facts"
)

// Provider collects declarations from type-checked Go packages.
type Provider struct {
	prefix     string
	tagKey     string
	directives map[string]facts.Kind
	log        zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithDirectivePrefix sets the directive prefix, "protoguard:" by default.
func WithDirectivePrefix(prefix string) Option {
	return func(p *Provider) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithTagKey sets the struct tag key, "proto" by default.
func WithTagKey(key string) Option {
	return func(p *Provider) {
		if key != "" {
			p.tagKey = key
		}
	}
}

// WithDirectives adds directive aliases.
func WithDirectives(aliases map[string]facts.Kind) Option {
	return func(p *Provider) {
		p.directives = predefinedDirectives(aliases)
	}
}

// WithLogger sets the logger for debug events.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) {
		p.log = log
	}
}

// New creates a provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		prefix:     DefaultPrefix,
		tagKey:     DefaultTagKey,
		directives: predefinedDirectives(nil),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Package is a type-checked package to collect declarations from.
type Package struct {
	Fset      *token.FileSet
	Files     []*ast.File
	Info      *types.Info
	Types     *types.Package
	Inspector *inspector.Inspector
}

// FromPass builds a Package out of an analysis pass. The pass must require the
// inspect analyzer.
func FromPass(pass *analysis.Pass) Package {
	ins, _ := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if ins == nil {
		ins = inspector.New(pass.Files)
	}

	return Package{
		Fset:      pass.Fset,
		Files:     pass.Files,
		Info:      pass.TypesInfo,
		Types:     pass.Pkg,
		Inspector: ins,
	}
}

// FromPackage builds a Package out of a loaded package. The package must be loaded
// with syntax and types info.
func FromPackage(pkg *packages.Package) Package {
	return Package{
		Fset:      pkg.Fset,
		Files:     pkg.Syntax,
		Info:      pkg.TypesInfo,
		Types:     pkg.Types,
		Inspector: inspector.New(pkg.Syntax),
	}
}

// Collect gathers declarations of every package level type together with
// relations between them.
func (p *Provider) Collect(pkg Package) *Result {
	res := newResult()
	if pkg.Types == nil || pkg.Info == nil {
		return res
	}
	ins := pkg.Inspector
	if ins == nil {
		ins = inspector.New(pkg.Files)
	}

	scopes := make(map[*ast.File]*fileScope, len(pkg.Files))
	for _, f := range pkg.Files {
		scopes[f] = newFileScope(pkg.Types, pkg.Info, f)
	}

	ctors := p.constructors(pkg, ins)

	var file *ast.File
	ins.Preorder([]ast.Node{(*ast.File)(nil), (*ast.GenDecl)(nil)}, func(n ast.Node) {
		switch node := n.(type) {
		case *ast.File:
			file = node
		case *ast.GenDecl:
			if node.Tok != token.TYPE {
				return
			}
			for _, spec := range node.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				tn, ok := pkg.Info.Defs[ts.Name].(*types.TypeName)
				if !ok || tn.Parent() != pkg.Types.Scope() || tn.IsAlias() {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(node.Specs) == 1 {
					doc = node.Doc
				}
				decl := p.declaration(scopes[file], tn, ts, doc, res)
				decl.Constructors = ctors[tn]
				res.add(decl, tn)
			}
		}
	})

	res.link(pkg.Types)
	p.log.Debug().
		Str("package", pkg.Types.Path()).
		Int("types", len(res.Decls)).
		Msg("declarations collected")

	return res
}

func (p *Provider) declaration(
	scope *fileScope,
	tn *types.TypeName,
	ts *ast.TypeSpec,
	doc *ast.CommentGroup,
	res *Result,
) facts.Declaration {
	decl := facts.Declaration{
		Type: facts.MakeTypeID(tn.Pkg().Path(), tn.Name()),
		Pos:  ts.Name.Pos(),
	}

	if doc != nil {
		for _, c := range doc.List {
			a, ok := p.directive(scope, c, res)
			if !ok {
				continue
			}
			decl.Annotations = append(decl.Annotations, a)
		}
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return decl
	}
	for _, field := range st.Fields.List {
		names := memberNames(field)
		for _, name := range names {
			decl.Members = append(decl.Members, facts.Member{Name: name.Name, Pos: name.Pos()})
		}
		if field.Tag == nil {
			continue
		}
		a, ok := p.tag(scope, field, res)
		if !ok {
			continue
		}
		for _, name := range names {
			a.Member = name.Name
			a.Pos = name.Pos()
			decl.Annotations = append(decl.Annotations, a)
		}
	}

	return decl
}

// memberNames returns field names, or the type name for embedded fields.
func memberNames(field *ast.Field) []*ast.Ident {
	if len(field.Names) > 0 {
		return field.Names
	}

	typ := field.Type
	if star, ok := typ.(*ast.StarExpr); ok {
		typ = star.X
	}
	switch t := typ.(type) {
	case *ast.Ident:
		return []*ast.Ident{t}
	case *ast.SelectorExpr:
		return []*ast.Ident{t.Sel}
	case *ast.IndexExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return []*ast.Ident{id}
		}
	}

	return nil
}

func (p *Provider) tag(scope *fileScope, field *ast.Field, res *Result) (facts.Annotation, bool) {
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		p.log.Debug().Err(err).Msg("skip malformed struct tag")
		return facts.Annotation{}, false
	}
	value, ok := reflect.StructTag(raw).Lookup(p.tagKey)
	if !ok || value == "-" || value == "" {
		return facts.Annotation{}, false
	}

	number, named := parseTag(value)
	a := facts.Annotation{
		Kind: facts.KindMember,
		Args: []facts.Value{scope.number(number)},
	}
	if name, ok := named["name"]; ok {
		a.Named = map[string]facts.Value{"Name": facts.String(name)}
	}
	if a.Args[0].Kind == facts.ValueUnresolved {
		res.unresolved++
		p.log.Debug().Str("tag", value).Msg("unresolved field number")
	}

	return a, true
}

// directive parses a single directive comment. ok is false for regular comments,
// unknown and malformed directives.
func (p *Provider) directive(scope *fileScope, c *ast.Comment, res *Result) (facts.Annotation, bool) {
	body, ok := strings.CutPrefix(c.Text, "//"+p.prefix)
	if !ok {
		return facts.Annotation{}, false
	}

	name, rest := body, ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		name, rest = body[:i], body[i+1:]
	}
	name = strings.TrimSpace(name)
	kind, ok := p.directives[name]
	if !ok || kind == facts.KindMember {
		p.log.Debug().Str("directive", name).Msg("skip unknown directive")
		return facts.Annotation{}, false
	}

	toks, err := tokenize(rest)
	if err != nil {
		p.log.Debug().Err(err).Str("directive", name).Msg("skip malformed directive")
		return facts.Annotation{}, false
	}

	a := facts.Annotation{
		Kind: kind,
		Pos:  c.Slash,
	}
	switch kind {
	case facts.KindContract:
		a.Named = p.options(scope, toks)

	case facts.KindInclude:
		a.Args = []facts.Value{facts.Unresolved(), facts.Unresolved()}
		if len(toks) > 0 {
			a.Args[0] = scope.number(toks[0].text)
		}
		if len(toks) > 1 {
			if id, ok := scope.typeID(toks[1].text); ok {
				a.Args[1] = facts.String(string(id))
			}
		}

	case facts.KindReserved:
		a.Args = p.reservation(scope, toks)

	case facts.KindPartialMember:
		a.Args = []facts.Value{facts.Unresolved(), facts.Unresolved()}
		if len(toks) > 0 {
			a.Args[0] = scope.number(toks[0].text)
		}
		if len(toks) > 1 {
			a.Args[1] = facts.String(toks[1].text)
		}
		if len(toks) > 2 {
			for k, v := range p.options(scope, toks[2:]) {
				if strings.EqualFold(k, "name") {
					a.Named = map[string]facts.Value{"Name": v}
				}
			}
		}

	case facts.KindIgnore:
		if len(toks) > 0 {
			a.Args = []facts.Value{facts.String(toks[0].text)}
		}
	}

	for _, v := range a.Args {
		if v.Kind == facts.ValueUnresolved {
			res.unresolved++
			p.log.Debug().Str("directive", c.Text).Msg("unresolved directive argument")
			break
		}
	}

	return a, true
}

// options parses words like "Flag" or "Key=value". A bare word is a true flag.
func (p *Provider) options(scope *fileScope, toks []word) map[string]facts.Value {
	res := map[string]facts.Value{}
	for _, t := range toks {
		if t.quoted {
			continue
		}
		k, v, ok := splitKeyValue(t.text)
		if !ok {
			res[t.text] = facts.Bool(true)
			continue
		}
		val := scope.value(word{text: v})
		if val.Kind == facts.ValueUnresolved {
			val = facts.String(v)
		}
		res[k] = val
	}

	return res
}

func (p *Provider) reservation(scope *fileScope, toks []word) []facts.Value {
	switch len(toks) {
	case 1:
		t := toks[0]
		if t.quoted {
			return []facts.Value{facts.String(t.text)}
		}
		if lo, hi, ok := splitRange(t.text); ok {
			if l, h := scope.number(lo), scope.number(hi); l.Kind == facts.ValueInt && h.Kind == facts.ValueInt {
				return []facts.Value{l, h}
			}
		}
		return []facts.Value{scope.value(t)}

	case 2:
		return []facts.Value{scope.number(toks[0].text), scope.number(toks[1].text)}

	default:
		return []facts.Value{facts.Unresolved()}
	}
}

// constructors finds package level functions named New<T> or new<T> whose first
// result is T or *T.
func (p *Provider) constructors(pkg Package, ins *inspector.Inspector) map[*types.TypeName][]facts.Constructor {
	res := map[*types.TypeName][]facts.Constructor{}
	ins.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fd := n.(*ast.FuncDecl)
		if fd.Recv != nil {
			return
		}
		fn, ok := pkg.Info.Defs[fd.Name].(*types.Func)
		if !ok {
			return
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok || sig.Results().Len() == 0 {
			return
		}

		tn := resultType(sig.Results().At(0).Type(), pkg.Types)
		if tn == nil {
			return
		}
		name := fd.Name.Name
		if !strings.HasPrefix(name, "New"+tn.Name()) && !strings.HasPrefix(name, "new"+tn.Name()) {
			return
		}

		params := sig.Params().Len()
		if sig.Variadic() {
			params--
		}
		res[tn] = append(res[tn], facts.Constructor{
			Name:       name,
			Params:     params,
			Accessible: ast.IsExported(name) || !tn.Exported(),
			Pos:        fd.Name.Pos(),
		})
	})

	return res
}

// resultType returns the named type of T or *T declared in pkg.
func resultType(t types.Type, pkg *types.Package) *types.TypeName {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}
	tn := named.Origin().Obj()
	if tn.Pkg() != pkg {
		return nil
	}

	return tn
}
