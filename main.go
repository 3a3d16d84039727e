package main

import "github.com/promptdock/promptdock/internal/cli"

func main() {
	cli.Execute()
}
