package main

import (
	"github.com/yflink/linkswap/internal/cli"
)

func main() {
	cli.Execute()
}
