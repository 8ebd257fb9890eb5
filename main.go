package main

import (
	"os"

	"github.com/fastkernel/kforge/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
