package main

import "github.com/JaimeStill/riskline/cmd/riskline/cmd"

func main() {
	cmd.Execute()
}
