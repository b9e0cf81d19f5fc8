package main

import "github.com/condameta/conda-meta-mcp/internal/commands"

func main() {
	commands.Execute()
}
