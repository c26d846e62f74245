package main

import (
	"os"

	"github.com/tormodhaugland/pb/cmd/pb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
