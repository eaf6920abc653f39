package main

import (
	"github.com/varshithab05/CoviScope/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
