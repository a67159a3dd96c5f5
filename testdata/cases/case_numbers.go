package cases

//protoguard:contract
type Numbers struct {
	A int `proto:"0"`
	B int `proto:"-42"`
	C int `proto:"536870912"`
	D int `proto:"2147483647"`
	E int `proto:"-2147483648"`
	F int `proto:"19000"`
	G int `proto:"19999"`
	H int `proto:"1"`
	I int `proto:"536870911"`
	J int `proto:"18999"`
	K int `proto:"20000"`
}
