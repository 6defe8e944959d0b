package main

import "github.com/Ekart13/ripbox/cmd"

func main() {
	cmd.Execute()
}
