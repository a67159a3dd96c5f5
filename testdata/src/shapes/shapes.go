package shapes

const tagID = 1

// Shape is the base contract.
//
//protoguard:contract
//protoguard:include 10 Circle
//protoguard:include 11 Square // want `PG153: The base-type 'Shape' is a proto-contract and the IgnoreUnknownSubTypes flag is not set; 'Square' should also be a proto-contract`
//protoguard:include 12 Circle // want `PG150: The type 'Circle' is declared as an include multiple times`
//protoguard:include 13 Unrelated // want `PG151: The type 'Unrelated' is declared as an include, but is not a direct sub-type`
//protoguard:reserved 20 30
//protoguard:reserved 25 // want `PG100: The reservations \[25-25\] and \[20-30\] overlap each-other`
//protoguard:reserved "legacy"
//protoguard:partial 2 Hidden // want `PG002: The specified field number 2 is duplicated`
//protoguard:partial 40 Missing // want `PG007: The specified type member 'Missing' could not be resolved`
//protoguard:ignore Cache
type Shape struct {
	ID     int    `proto:"tagID"`
	Title  string `proto:"2,name=legacy"` // want `PG005: The specified field name 'legacy' is explicitly reserved`
	Zero   int    `proto:"0"`             // want `PG001: The specified field number 0 is invalid`
	Wire   int    `proto:"19500"`         // want `PG001: The specified field number 19500 is invalid`
	Old    int    `proto:"21"`            // want `PG004: The specified field number \[20-30\] is explicitly reserved`
	Cache  []byte `proto:"50"`            // want `PG006: The member 'Cache' is marked to be ignored`
	Hidden int
	Skip   int    `proto:"-"`
	Name   string `proto:"60,name=title"`
	Label  string `proto:"61,name=title"` // want `PG003: The specified field name 'title' is duplicated`
}

// Circle is included twice.
//
//protoguard:contract
type Circle struct { // want `PG201: There is no suitable`
	Shape
	Radius float64 `proto:"1"`
}

func NewCircle(r float64) *Circle {
	return &Circle{Radius: r}
}

// Square is included but is not a contract.
type Square struct {
	Shape
	Side float64
}

//protoguard:contract
type Triangle struct {
	Shape // want `PG152: The base-type 'Shape' is a proto-contract, but no include is declared for 'Triangle'`
}

//protoguard:contract SkipConstructor
type Unrelated struct {
	Value int `proto:"1"`
}

func NewUnrelated(v int) *Unrelated {
	return &Unrelated{Value: v}
}

type Lonely struct { // want `PG200: The type is not marked as a proto-contract`
	Value int `proto:"1"`
}

//protoguard:contract IgnoreUnknownSubTypes
type Animal struct {
	Name string `proto:"1"`
}

type Dog struct {
	Animal
}

// Options can be created without arguments.
//
//protoguard:contract
type Options struct {
	Verbose bool `proto:"1"`
}

func NewOptions(opts ...func(*Options)) *Options {
	return &Options{}
}
