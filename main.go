package main

import "github.com/kbellanger/salescope/cmd"

func main() {
	cmd.Execute()
}
