package main

import (
	"os"

	"github.com/bitrise-io/go-utils/log"
	"github.com/bitrise-io/sbom-license-collector/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}
