package main

import (
	"fmt"
	"os"

	"github.com/glabrego/storyreel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "storyreel: %v\n", err)
		os.Exit(1)
	}
}
