package main

import "xmlstore/cmd"

func main() {
	cmd.Execute()
}
