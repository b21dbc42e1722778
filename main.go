package main

import "github.com/farhanda/snapvault/cmd"

func main() {
	cmd.Execute()
}
