package app

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mahjong/common/config"
	"mahjong/common/discovery"
	"mahjong/common/http"
	"mahjong/common/log"
	"mahjong/common/utils"
	"mahjong/framework/game"
	"mahjong/gate/api"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func Run(ctx context.Context) error {
	conf := config.Conf
	container, err := NewContainer(ctx, conf)
	if err != nil {
		return err
	}
	defer container.Close()

	// 使用 common 封装的 gin 库 http-server
	server := http.NewHttpServer(
		http.WithPort(conf.HttpPort),
		http.WithMode(conf.Log.Level),
	)
	server.Use(
		http.RequestIDMiddleware(),
		http.CorsMiddleware(),
	)
	if conf.RateLimit.Rate > 0 {
		server.Use(http.RateLimitMiddleware(utils.NewKeyedRateLimiter(conf.RateLimit.Rate, conf.RateLimit.Burst)))
	}

	handler := api.NewHandler(container.Rooms, container.Searcher, container.Hub, conf.JwtConf.Secret)
	for name, check := range container.HealthChecks() {
		handler.AddHealthCheck(name, check)
	}
	api.RegisterRoutes(server, handler)

	errCh := make(chan error, 2)
	go func() {
		log.Info("启动 HTTP 服务器，端口: %d", conf.HttpPort)
		if err := server.Start(); err != nil {
			errCh <- err
		}
	}()

	var grpcServer *grpc.Server
	var healthServer *health.Server
	if conf.GrpcConf.Addr != "" {
		lis, err := net.Listen("tcp", conf.GrpcConf.Addr)
		if err != nil {
			return err
		}
		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		go func() {
			log.Info("启动 gRPC 健康检查服务: %s", conf.GrpcConf.Addr)
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- err
			}
		}()
	}

	var register *discovery.Register
	if len(conf.EtcdConf.Addrs) > 0 {
		register = discovery.NewRegister()
		if err := register.Register(conf.EtcdConf); err != nil {
			log.Error("etcd 注册失败: %v", err)
			register = nil
		}
	}

	monitorCtx, cancelMonitor := context.WithCancel(ctx)
	monitor := game.NewMonitor(container.Rooms, conf.GameConf.MonitorPeriod())
	go monitor.Start(monitorCtx)

	stop := func() {
		log.Info("正在关闭 gate 服务...")
		cancelMonitor()
		if register != nil {
			register.Close()
		}
		if healthServer != nil {
			healthServer.Shutdown()
			grpcServer.GracefulStop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP 服务器关闭失败: %v", err)
		} else {
			log.Info("HTTP 服务器已优雅关闭")
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case err := <-errCh:
			stop()
			return err
		case s := <-c:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				stop()
				log.Info("中断信号，服务停止")
				return nil
			case syscall.SIGHUP:
				stop()
				log.Info("挂起信号，服务停止")
				return nil
			default:
				return nil
			}
		}
	}
}
