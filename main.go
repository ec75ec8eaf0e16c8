package main

import (
	"os"

	"news-hallucination/cmd"
	"news-hallucination/pkg/util"

	"go.uber.org/zap"
)

func main() {
	if err := util.InitLogger("info"); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
