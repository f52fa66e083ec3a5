package main

import "github.com/mcncl/jsontab/internal/cli"

func main() {
	cli.Main()
}
