package main

import "github.com/podbot/podclip/internal/cli"

func main() {
	cli.Main()
}
