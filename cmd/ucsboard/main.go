package main

import "ucsboard/internal/cli"

func main() {
	cli.Execute()
}
