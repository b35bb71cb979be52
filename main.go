package main

import "github.com/dotcommander/egralens/cmd"

func main() {
	cmd.Execute()
}
