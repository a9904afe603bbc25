package main

import "drvx/internal/cli"

func main() {
	cli.Execute()
}
