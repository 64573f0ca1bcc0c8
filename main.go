package main

import (
	"github.com/wkalt/tlmdict/cmd"
)

func main() {
	cmd.Execute()
}
