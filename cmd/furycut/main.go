package main

import "github.com/forPelevin/furycut/internal/cli"

func main() {
	cli.Main()
}
