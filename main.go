package main

import "knagahashi/cardharvester/cmd"

func main() {
	cmd.Execute()
}
