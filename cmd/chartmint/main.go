package main

import (
	"os"

	"github.com/chartmint/chartmint/internal/cmds"
	"github.com/chartmint/chartmint/internal/logs"
)

func main() {
	if err := cmds.Execute(); err != nil {
		logs.Errorf("%v", err)
		logs.Infof("Type 'chartmint help' to get help.")
		os.Exit(1)
	}
}
