package main

import (
	"errors"
	"os"

	"bennypowers.dev/tldedent/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			log.Error("%v", err)
		}
		os.Exit(1)
	}
}
