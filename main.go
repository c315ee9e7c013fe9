package main

import (
	"github.com/AzielCF/az-meta/cmd"
)

func main() {
	cmd.Execute()
}
