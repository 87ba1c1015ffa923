package main

import "github.com/theirongolddev/budgetview/cmd"

func main() {
	cmd.Execute()
}
