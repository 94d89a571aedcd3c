package main

import "github.com/notpeelz/osc52/cmd"

func main() {
	cmd.Execute()
}
