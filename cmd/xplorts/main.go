package main

import "github.com/econviz/xplorts/internal/cli"

func main() {
	cli.Execute()
}
