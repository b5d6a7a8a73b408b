// main is the entry point for the testpulse CLI.
package main

import (
	"os"

	"github.com/huangsam/testpulse/cmd"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
)

func main() {
	code := 0
	if err := cmd.Execute(); err != nil {
		contract.LogWarn("Command failed", err)
		code = 1
	}
	iostore.CloseTracking()
	os.Exit(code)
}
