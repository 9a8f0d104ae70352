// Package main is the entry point for the csrounds CLI tool, which parses
// CS2 demo files and reconstructs round timelines, economies and momentum.
package main

import "csrounds/cmd"

func main() {
	cmd.Execute()
}
