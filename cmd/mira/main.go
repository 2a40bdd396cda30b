package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Rsplwe/Mira/pkg/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "mira",
		Short:         "B 站直播间弹幕客户端",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newWatchCmd(), newTailCmd())

	if err := root.Execute(); err != nil {
		logger.L().Sugar().Errorw("mira exit", "err", err)
		os.Exit(1)
	}
}
