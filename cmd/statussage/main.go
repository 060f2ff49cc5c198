package main

import "github.com/nathfavour/statussage/internal/cli"

func main() {
	cli.Execute()
}
