package main

import "github.com/pressgen/pressgen/cli"

func main() {
	cli.Execute()
}
