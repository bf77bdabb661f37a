package main

import "shortorder/internal/cli"

func main() {
	cli.Execute()
}
