package main

import (
	"github.com/flowsolve/gofvm/cmd"
)

func main() {
	cmd.Execute()
}
