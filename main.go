package main

import (
	"log"

	"github.com/parisxmas/oxidocs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("oxidocs: %v", err)
	}
}
