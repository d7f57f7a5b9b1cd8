package main

import "github.com/atestado-tools/atestado-reader/internal/cli"

func main() {
	cli.Execute()
}
