package main

import "github.com/DrSkyle/stowage/cmd/stowage/commands"

func main() {
	commands.Execute()
}
