package main

import (
	"github.com/rix-ai/research-rag/internal/cli"
)

func main() {
	cli.Execute()
}
