package main

import "github.com/punchamoorthee/bankdash/cmd/bankdash/commands"

func main() {
	commands.Execute()
}
