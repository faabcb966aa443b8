package main

import (
	"os"

	"github.com/ternarybob/specto/cmd/specto/commands"
	"github.com/ternarybob/specto/internal/common"
)

func main() {
	defer common.RecoverWithCrashFile()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
