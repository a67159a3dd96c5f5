package cases

const (
	firstReserved = 10
	lastReserved  = 25
)

//protoguard:contract SkipConstructor
//protoguard:reserved firstReserved lastReserved
//protoguard:reserved 30-20
//protoguard:reserved "name"
//protoguard:reserved "name"
//protoguard:reserved 100
type Reserved struct {
	Name  string `proto:"1"`
	Value int    `proto:"lastReserved"`
}

func NewReserved(name string) *Reserved {
	return &Reserved{Name: name}
}
