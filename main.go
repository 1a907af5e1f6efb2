package main

import (
	"spacedock-search/cmd"
	"spacedock-search/logger"

	_ "go.uber.org/automaxprocs"
)

func main() {
	logger.InitLogger("info")
	defer logger.Sync()
	cmd.Execute()
}
