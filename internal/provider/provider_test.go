package provider

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"testing"

	"github.com/sirkon/deepequal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/rules"
)

const shapesSource = `package shapes

import "math"

const (
	tagTitle = 1
	tagHuge  = math.MaxInt8
)

// Shape is a base.
//
//protoguard:contract SkipConstructor=false
//protoguard:include 10 Circle
//protoguard:include 11 Square // trailing comment
//protoguard:reserved 3 5
//protoguard:reserved 9-8
//protoguard:reserved "legacy"
//protoguard:reserved 7
//protoguard:partial 6 Hidden name=hidden
//protoguard:ignore Cache
//protoguard:unknown 1
type Shape struct {
	Title  string ` + "`" + `proto:"tagTitle,name=title"` + "`" + `
	Size   int    ` + "`" + `proto:"2" json:"size"` + "`" + `
	Extra  int    ` + "`" + `proto:"math.MaxInt8"` + "`" + `
	Cache  []byte ` + "`" + `proto:"-"` + "`" + `
	Hidden int
	Bad    int ` + "`" + `proto:"nope"` + "`" + `
}

// Circle is a sub-type.
//
//protoguard:contract
type Circle struct {
	Shape
	Radius float64 ` + "`" + `proto:"1"` + "`" + `
}

type Square struct {
	*Shape
	Side float64
}

type (
	//protoguard:contract IgnoreUnknownSubTypes
	Grouped struct{}

	Plain int
)

func NewCircle(r float64) *Circle { return &Circle{Radius: r} }

func NewSquare() Square { return Square{} }

func newSquareWith(opts ...int) *Square { return nil }

func helper() {
	//protoguard:contract
	type local struct{}
	_ = local{}
}
`

func load(t *testing.T, src string) Package {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "shapes.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Types:     map[ast.Expr]types.TypeAndValue{},
		Defs:      map[*ast.Ident]types.Object{},
		Uses:      map[*ast.Ident]types.Object{},
		Implicits: map[ast.Node]types.Object{},
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check("example.com/shapes", fset, []*ast.File{file}, info)
	require.NoError(t, err)

	return Package{
		Fset:  fset,
		Files: []*ast.File{file},
		Info:  info,
		Types: pkg,
	}
}

func withoutPositions(decl facts.Declaration) facts.Declaration {
	decl.Pos = token.NoPos
	anns := make([]facts.Annotation, len(decl.Annotations))
	for i, a := range decl.Annotations {
		a.Pos = token.NoPos
		anns[i] = a
	}
	decl.Annotations = anns

	members := make([]facts.Member, len(decl.Members))
	for i, m := range decl.Members {
		m.Pos = token.NoPos
		members[i] = m
	}
	decl.Members = members

	ctors := make([]facts.Constructor, len(decl.Constructors))
	for i, c := range decl.Constructors {
		c.Pos = token.NoPos
		ctors[i] = c
	}
	decl.Constructors = ctors

	return decl
}

func findDecl(t *testing.T, res *Result, id facts.TypeID) facts.Declaration {
	t.Helper()
	for _, d := range res.Decls {
		if d.Type == id {
			return d
		}
	}
	t.Fatalf("declaration %s not found", id)
	return facts.Declaration{}
}

func TestProvider_Collect(t *testing.T) {
	pkg := load(t, shapesSource)
	res := New().Collect(pkg)

	var ids []facts.TypeID
	for _, d := range res.Decls {
		ids = append(ids, d.Type)
	}
	assert.Equal(t, []facts.TypeID{
		"example.com/shapes.Shape",
		"example.com/shapes.Circle",
		"example.com/shapes.Square",
		"example.com/shapes.Grouped",
		"example.com/shapes.Plain",
	}, ids)

	t.Run("shape", func(t *testing.T) {
		got := withoutPositions(findDecl(t, res, "example.com/shapes.Shape"))
		want := facts.Declaration{
			Type: "example.com/shapes.Shape",
			Annotations: []facts.Annotation{
				{Kind: facts.KindContract, Named: map[string]facts.Value{"SkipConstructor": facts.Bool(false)}},
				{Kind: facts.KindInclude, Args: []facts.Value{facts.Int(10), facts.String("example.com/shapes.Circle")}},
				{Kind: facts.KindInclude, Args: []facts.Value{facts.Int(11), facts.String("example.com/shapes.Square")}},
				{Kind: facts.KindReserved, Args: []facts.Value{facts.Int(3), facts.Int(5)}},
				{Kind: facts.KindReserved, Args: []facts.Value{facts.Int(9), facts.Int(8)}},
				{Kind: facts.KindReserved, Args: []facts.Value{facts.String("legacy")}},
				{Kind: facts.KindReserved, Args: []facts.Value{facts.Int(7)}},
				{
					Kind:  facts.KindPartialMember,
					Args:  []facts.Value{facts.Int(6), facts.String("Hidden")},
					Named: map[string]facts.Value{"Name": facts.String("hidden")},
				},
				{Kind: facts.KindIgnore, Args: []facts.Value{facts.String("Cache")}},
				{
					Kind:   facts.KindMember,
					Member: "Title",
					Args:   []facts.Value{facts.Int(1)},
					Named:  map[string]facts.Value{"Name": facts.String("title")},
				},
				{Kind: facts.KindMember, Member: "Size", Args: []facts.Value{facts.Int(2)}},
				{Kind: facts.KindMember, Member: "Extra", Args: []facts.Value{facts.Int(127)}},
				{Kind: facts.KindMember, Member: "Bad", Args: []facts.Value{facts.Unresolved()}},
			},
			Members: []facts.Member{
				{Name: "Title"},
				{Name: "Size"},
				{Name: "Extra"},
				{Name: "Cache"},
				{Name: "Hidden"},
				{Name: "Bad"},
			},
			Constructors: []facts.Constructor{},
		}

		if !reflect.DeepEqual(want, got) {
			deepequal.SideBySide(t, "declaration", want, got)
		}
	})

	t.Run("constructors", func(t *testing.T) {
		circle := withoutPositions(findDecl(t, res, "example.com/shapes.Circle"))
		assert.Equal(t, []facts.Constructor{{Name: "NewCircle", Params: 1, Accessible: true}}, circle.Constructors)

		square := withoutPositions(findDecl(t, res, "example.com/shapes.Square"))
		assert.Equal(t, []facts.Constructor{
			{Name: "NewSquare", Params: 0, Accessible: true},
			{Name: "newSquareWith", Params: 0, Accessible: false},
		}, square.Constructors)
		assert.Equal(t, []facts.Member{{Name: "Shape"}, {Name: "Side"}}, square.Members)
	})

	t.Run("grouped declaration", func(t *testing.T) {
		grouped := withoutPositions(findDecl(t, res, "example.com/shapes.Grouped"))
		assert.Equal(t, []facts.Annotation{
			{Kind: facts.KindContract, Named: map[string]facts.Value{"IgnoreUnknownSubTypes": facts.Bool(true)}},
		}, grouped.Annotations)
	})

	t.Run("relations", func(t *testing.T) {
		subs := res.SubTypes("example.com/shapes.Shape")
		require.Len(t, subs, 2)
		assert.Equal(t, facts.TypeID("example.com/shapes.Circle"), subs[0].Type)
		assert.Equal(t, facts.TypeID("example.com/shapes.Square"), subs[1].Type)
		assert.True(t, subs[0].Pos.IsValid())

		assert.Empty(t, res.SubTypes("example.com/shapes.Circle"))

		contract, known := res.IsContract("example.com/shapes.Circle")
		assert.True(t, known)
		assert.True(t, contract)

		contract, known = res.IsContract("example.com/shapes.Square")
		assert.True(t, known)
		assert.False(t, contract)

		_, known = res.IsContract("example.com/other.Type")
		assert.False(t, known)
	})

	assert.Equal(t, 1, res.Unresolved())
}

func TestProvider_Positions(t *testing.T) {
	pkg := load(t, shapesSource)
	res := New().Collect(pkg)

	shape := findDecl(t, res, "example.com/shapes.Shape")
	pos := pkg.Fset.Position(shape.Pos)
	assert.Equal(t, 22, pos.Line)

	contract := pkg.Fset.Position(shape.Annotations[0].Pos)
	assert.Equal(t, 12, contract.Line)

	title := pkg.Fset.Position(shape.Annotations[9].Pos)
	assert.Equal(t, 23, title.Line)
}

func TestProvider_Options(t *testing.T) {
	const src = `package shapes

//wire:message
//wire:field 3 Value
type Message struct {
	Value int ` + "`" + `wire:"1"` + "`" + `
	Other int ` + "`" + `proto:"2"` + "`" + `
}
`
	pkg := load(t, src)
	p := New(
		WithDirectivePrefix("wire:"),
		WithTagKey("wire"),
		WithDirectives(map[string]facts.Kind{
			"message": facts.KindContract,
			"field":   facts.KindPartialMember,
		}),
	)
	res := p.Collect(pkg)
	require.Len(t, res.Decls, 1)

	got := withoutPositions(res.Decls[0])
	assert.Equal(t, []facts.Annotation{
		{Kind: facts.KindContract, Named: map[string]facts.Value{}},
		{Kind: facts.KindPartialMember, Args: []facts.Value{facts.Int(3), facts.String("Value")}},
		{Kind: facts.KindMember, Member: "Value", Args: []facts.Value{facts.Int(1)}},
	}, got.Annotations)
}

func TestProvider_EndToEnd(t *testing.T) {
	pkg := load(t, shapesSource)
	res := New().Collect(pkg)

	e := rules.NewEngine()
	var codes []string
	for _, d := range res.Decls {
		for _, ds := range e.Analyze(d, res) {
			codes = append(codes, ds.Rule.Code())
		}
	}

	// Square is included but not a contract, Bad has an unresolved number,
	// Circle has no parameterless constructor.
	assert.Equal(t, []string{"PG153", "PG201"}, codes)
}

func TestProvider_TabSeparatedDirective(t *testing.T) {
	const src = "package shapes\n\n" +
		"//protoguard:contract\n" +
		"//protoguard:reserved\t5\n" +
		"type Shape struct {\n" +
		"\tID int `proto:\"5\"`\n" +
		"}\n"
	pkg := load(t, src)
	res := New().Collect(pkg)
	require.Len(t, res.Decls, 1)

	got := withoutPositions(res.Decls[0])
	assert.Equal(t, []facts.Annotation{
		{Kind: facts.KindContract, Named: map[string]facts.Value{}},
		{Kind: facts.KindReserved, Args: []facts.Value{facts.Int(5)}},
		{Kind: facts.KindMember, Member: "ID", Args: []facts.Value{facts.Int(5)}},
	}, got.Annotations)

	var codes []string
	for _, d := range rules.NewEngine().Analyze(res.Decls[0], res) {
		codes = append(codes, d.Rule.Code())
	}
	assert.Equal(t, []string{"PG004"}, codes)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []word
		wantErr bool
	}{
		{
			name:  "words",
			input: " 10  Circle\t",
			want:  []word{{text: "10"}, {text: "Circle"}},
		},
		{
			name:  "quoted",
			input: `"old name" ` + "`raw`",
			want:  []word{{text: "old name", quoted: true}, {text: "raw", quoted: true}},
		},
		{
			name:  "escaped quote",
			input: `"a\"b"`,
			want:  []word{{text: `a"b`, quoted: true}},
		},
		{
			name:  "trailing comment",
			input: "1 2 // want `x`",
			want:  []word{{text: "1"}, {text: "2"}},
		},
		{
			name:  "empty",
			input: "",
		},
		{
			name:    "unterminated",
			input:   `"abc`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitRange(t *testing.T) {
	tests := []struct {
		input  string
		lo, hi string
		ok     bool
	}{
		{input: "10-20", lo: "10", hi: "20", ok: true},
		{input: "-5-5", lo: "-5", hi: "5", ok: true},
		{input: "-5"},
		{input: "7"},
		{input: "a-b", lo: "a", hi: "b", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lo, hi, ok := splitRange(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestParseTag(t *testing.T) {
	number, named := parseTag("3, name=title ,bogus")
	assert.Equal(t, "3", number)
	assert.Equal(t, map[string]string{"name": "title"}, named)

	number, named = parseTag("Const")
	assert.Equal(t, "Const", number)
	assert.Nil(t, named)
}
