package cases

//protoguard:contract
//protoguard:include 5 Dog
//protoguard:include 5 Cat
type Animal struct{}

//protoguard:contract
type Dog struct {
	Animal
}

type Cat struct {
	Animal
}

//protoguard:contract
type Bird struct {
	Animal
}
