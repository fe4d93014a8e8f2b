package main

import "github.com/donhauser001/dhs-atlas/cmd"

func main() {
	cmd.Execute()
}
