package main

import "github.com/funvibe/interop/internal/cli"

func main() {
	cli.Execute()
}
