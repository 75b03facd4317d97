package main

import "reqbench/cmd"

func main() {
	cmd.Execute()
}
