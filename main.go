package main

import "github.com/insightdelivered/hsbc-statement-converter/cmd"

func main() {
	cmd.Execute()
}
