package main

import "github.com/brogergvhs/polscrape/cmd"

func main() {
	cmd.Execute()
}
