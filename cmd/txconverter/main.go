package main

import "github.com/maxWiklund/txConverter/internal/adapters/cli"

func main() {
	cli.Execute()
}
