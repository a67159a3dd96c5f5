package wire

const (
	fieldID   = 1
	fieldName = 2
)

//wire:message
//wire:reserved 5-9
//wire:reserved 7 // overlapping reservations are disabled by config
type User struct {
	ID    int    `wire:"fieldID"`
	Name  string `wire:"fieldName"`
	Email string `wire:"7"` // want `PG004: The specified field number \[5-9\] is explicitly reserved`
	Age   int    `proto:"0"`
}

type Account struct { // want `PG200: The type is not marked as a proto-contract`
	Owner User `wire:"19001"`
}
