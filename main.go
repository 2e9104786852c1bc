// Package main is the entry point of the phpcsutils command.
package main

import "phpcsutils/cmd"

func main() {
	cmd.Execute()
}
