package main

import "resannotate/internal/cli"

func main() {
	cli.Execute()
}
