package main

import "lpbridge/internal/cli"

func main() {
	cli.Execute()
}
