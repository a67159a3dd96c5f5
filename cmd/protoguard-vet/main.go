// Command protoguard-vet runs the protoguard analyzer standalone or as a vet tool:
//
//	go vet -vettool=$(which protoguard-vet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/sirkon/protoguard"
)

func main() {
	singlechecker.Main(protoguard.Analyzer)
}
