package main

import "github.com/micado-scale/adtctl/cmd"

func main() {
	cmd.Execute()
}
