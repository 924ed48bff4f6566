package main

import "github.com/pfrederiksen/milb-data/internal/cli"

func main() {
	cli.Execute()
}
