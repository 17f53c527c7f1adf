package main

import (
	"os"

	"mahjong/common/log"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "mahjong",
	Short: "麻将牌型判定与文字版对局",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.InitLog("mahjong", logLevel)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "warn", "日志级别")
	rootCmd.AddCommand(checkCmd, playCmd, demoCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
