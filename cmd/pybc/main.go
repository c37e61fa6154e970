package main

import "github.com/shardpy/pybc/cmd/pybc/cmd"

func main() {
	cmd.Execute()
}
