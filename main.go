package main

import "github.com/sadopc/warrior/internal/cli"

func main() {
	cli.Execute()
}
