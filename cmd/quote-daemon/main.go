package main

import "github.com/andrescamacho/quoteflow-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
