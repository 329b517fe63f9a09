package config

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-ping/ping"
	"github.com/truthlens/newsroom/dlog"
)

var (
	pingTaskServers   = []string{}
	pingTaskServersMu sync.Mutex
)

// pingServer logs round trip statistics to the redis host, once per host
func pingServer(domain string) {
	pingTaskServersMu.Lock()
	if slices.Index(pingTaskServers, domain) != -1 {
		pingTaskServersMu.Unlock()
		return
	}
	pingTaskServers = append(pingTaskServers, domain)
	pingTaskServersMu.Unlock()

	pinger, err := ping.NewPinger(domain)
	if err != nil {
		dlog.Info().AnErr("Step1.5 ERROR NewPinger", err).Send()
		return
	}
	pinger.Count = 4
	pinger.Timeout = time.Second * 10
	pinger.OnFinish = func(stats *ping.Statistics) {
		dlog.Info().Str("Step1.5 Ping ", fmt.Sprintf("--- %s ping statistics ---", stats.Addr)).Send()
		dlog.Info().Str("Step1.5 Ping", fmt.Sprintf("%d/%d/%v%%", stats.PacketsSent, stats.PacketsRecv, stats.PacketLoss)).Send()
		dlog.Info().Str("Step1.5 Ping", fmt.Sprintf("%v/%v/%v/%v", stats.MinRtt, stats.AvgRtt, stats.MaxRtt, stats.StdDevRtt)).Send()
	}
	go func() {
		if err := pinger.Run(); err != nil {
			dlog.Info().AnErr("Step1.5 ERROR Ping", err).Send()
		}
	}()
}
