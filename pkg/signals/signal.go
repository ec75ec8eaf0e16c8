package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var onlyOneSignalHandler = make(chan struct{})

// SetupSignalHandler 注册 SIGINT/SIGTERM，第一次收到信号时取消返回的 context，
// 第二次直接退出。只能调用一次。
func SetupSignalHandler() context.Context {
	close(onlyOneSignalHandler) // 重复调用时 panic

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		zap.S().Warn("收到退出信号，等待当前文章处理完成...")
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
