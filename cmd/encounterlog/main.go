package main

import "github.com/mcoot/encounterlog/internal/cli"

func main() {
	cli.Execute()
}
