package main

import (
	"os"

	"portfolioRiskBot/cmd/analyze/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
