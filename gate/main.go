package main

import (
	"context"
	"fmt"
	"os"

	"mahjong/common/config"
	"mahjong/common/log"
	"mahjong/common/metrics"
	"mahjong/gate/app"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "gate",
	Short: "gate 网关",
	Long:  `gate 网关：牌型判定与牌桌 HTTP/websocket 接口`,
	Run: func(cmd *cobra.Command, args []string) {
		err := config.InitConfig(configFile, func(conf *config.Config) {
			if logLevel == "" {
				log.SetLevel(conf.Log.Level)
			}
			log.Info("配置文件已更新，日志级别: %s", conf.Log.Level)
		})
		if err != nil {
			log.Fatal("文件配置发生错误：%v", err)
		}
		if logLevel != "" {
			config.Conf.Log.Level = logLevel
		}
		log.InitLog(config.Conf.AppName, config.Conf.Log.Level)
		log.Info("配置文件: %+v", config.Conf)

		if config.Conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", config.Conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", config.Conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		if err := app.Run(context.Background()); err != nil {
			log.Error("发生异常: %v", err)
			os.Exit(-1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "configFile", "", "配置文件，为空时只使用默认值与环境变量")
	rootCmd.Flags().StringVar(&logLevel, "logLevel", "", "覆盖配置中的日志级别")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %#v", err)
		os.Exit(1)
	}
}
