package main

import "github.com/chriserin/ftgen/cmd"

func main() {
	cmd.Execute()
}
