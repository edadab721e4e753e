package main

import (
	"log"

	"github.com/anoixa/tryon-server/cmd"
	"github.com/anoixa/tryon-server/config"
)

func main() {
	log.Printf("tryon server %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
