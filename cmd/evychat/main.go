package main

import "github.com/diogo/evychat/internal/commands"

func main() {
	commands.Execute()
}
