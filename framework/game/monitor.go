package game

import (
	"context"
	"time"

	"mahjong/common/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// LoadInfo 节点负载
type LoadInfo struct {
	GameCount   int
	PlayerCount int
	CPUUsage    float64 // 百分比
	MemUsage    float64 // 百分比
}

// CalculateLoad 0-100，CPU 与内存各占 40%，牌桌数占 20%（满 1000 桌）
func (l *LoadInfo) CalculateLoad() float64 {
	games := float64(l.GameCount) / 1000 * 100
	if games > 100 {
		games = 100
	}
	return l.CPUUsage*0.4 + l.MemUsage*0.4 + games*0.2
}

// StatsSource 提供牌桌统计，RoomManager 实现
type StatsSource interface {
	Stats() (games, players int)
}

// Monitor 定期采集负载并写日志
type Monitor struct {
	source         StatsSource
	updateInterval time.Duration
	stopCh         chan struct{}
	sample         func(ctx context.Context) (cpuUsage, memUsage float64)
}

func NewMonitor(source StatsSource, updateInterval time.Duration) *Monitor {
	if updateInterval <= 0 {
		updateInterval = 30 * time.Second
	}
	return &Monitor{
		source:         source,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
		sample:         sampleHost,
	}
}

// Start 阻塞运行，ctx 取消或 Stop 后返回
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.reportLoad(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.reportLoad(ctx)
		}
	}
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) reportLoad(ctx context.Context) {
	info := m.collectLoadInfo(ctx)
	log.Info("Monitor 负载: Load=%.2f, Games=%d, Players=%d, CPU=%.2f%%, Mem=%.2f%%",
		info.CalculateLoad(), info.GameCount, info.PlayerCount, info.CPUUsage, info.MemUsage)
}

func (m *Monitor) collectLoadInfo(ctx context.Context) *LoadInfo {
	games, players := m.source.Stats()
	cpuUsage, memUsage := m.sample(ctx)
	return &LoadInfo{
		GameCount:   games,
		PlayerCount: players,
		CPUUsage:    cpuUsage,
		MemUsage:    memUsage,
	}
}

// sampleHost 采样失败时对应项记为 0
func sampleHost(ctx context.Context) (cpuUsage, memUsage float64) {
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		log.Debug("Monitor 读取 CPU 失败: %v", err)
	} else if len(percents) > 0 {
		cpuUsage = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		log.Debug("Monitor 读取内存失败: %v", err)
	} else {
		memUsage = vm.UsedPercent
	}
	return cpuUsage, memUsage
}
