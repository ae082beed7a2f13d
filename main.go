package main

import "github.com/Tiliavir/timeprojec/cmd"

func main() {
	cmd.Execute()
}
