package main

import (
	"os"

	"github.com/alberlin232/ShReGeAs/cmd"
)

func main() {
	os.Exit(cmd.Execute()) // initialize cobra commands
}
