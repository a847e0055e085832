// Package main is the entry point for the smite CLI.
package main

import "smite.dev/pkg/smite/cmd"

func main() {
	cmd.Execute()
}
