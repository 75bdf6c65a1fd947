package main

import "github.com/mouse-blink/pyright-mcp/cmd"

func main() {
	cmd.Execute()
}
