package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mahjong/framework/node"
	"mahjong/framework/stream"

	"github.com/spf13/cobra"
)

var watchFlags struct {
	url     string
	subject string
}

var watchCmd = &cobra.Command{
	Use:   "watch [gameID]",
	Short: "订阅 nats 上的牌桌事件，不指定 gameID 时订阅全部牌桌",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject := node.SubjectOf(watchFlags.subject, "*")
		if len(args) == 1 {
			subject = node.SubjectOf(watchFlags.subject, args[0])
		}

		cli := node.NewNatsClient()
		if err := cli.Run(watchFlags.url); err != nil {
			return err
		}
		defer cli.Close()

		out := cmd.OutOrStdout()
		err := cli.Subscribe(subject, func(_ string, data []byte) {
			msg, err := stream.Decode(data)
			if err != nil {
				fmt.Fprintf(out, "无法解析的消息: %v\n", err)
				return
			}
			fmt.Fprintf(out, "[%s] %s %s\n", msg.GameID, msg.Route, msg.Data)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "正在订阅 %s，Ctrl-C 退出\n", subject)

		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchFlags.url, "nats", "nats://localhost:4222", "nats 地址")
	watchCmd.Flags().StringVar(&watchFlags.subject, "subject", "mahjong.table", "事件主题前缀")
}
