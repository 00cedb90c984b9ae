// Package main is the entry point for the vault dashboard client.
package main

import "github.com/nstepanov/passvault/internal/cli"

func main() {
	cli.Execute()
}
