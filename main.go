package main

import "github.com/Tiliavir/shiftbase/cmd"

func main() {
	cmd.Execute()
}
