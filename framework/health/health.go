// Package health exposes liveness and machine information endpoints.
package health

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/km-arc/go-force/framework/routing"
)

// Info describes the machine the application runs on. Memory is in GiB.
type Info struct {
	HostName        string  `json:"hostName"`
	IP              string  `json:"ip"`
	GoVersion       string  `json:"goVersion"`
	OS              string  `json:"osName"`
	Platform        string  `json:"platform"`
	PlatformVersion string  `json:"osVersion"`
	Arch            string  `json:"osArch"`
	CPUs            int     `json:"cpus"`
	TotalMemory     float64 `json:"totalMemory"`
	UsedMemory      float64 `json:"usedMemory"`
	Uptime          uint64  `json:"uptimeSeconds"`
}

// ── Service ───────────────────────────────────────────────────────────────────

// Service gathers health data.
type Service struct{}

func NewService() *Service { return &Service{} }

// Status is the liveness answer.
func (s *Service) Status() string { return "OK" }

// Info collects host, CPU and memory data.
func (s *Service) Info(ctx context.Context) (Info, error) {
	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("health: host info: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("health: memory: %w", err)
	}
	cpus, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		cpus = runtime.NumCPU()
	}

	return Info{
		HostName:        h.Hostname,
		IP:              primaryIP(ctx),
		GoVersion:       runtime.Version(),
		OS:              h.OS,
		Platform:        h.Platform,
		PlatformVersion: h.PlatformVersion,
		Arch:            h.KernelArch,
		CPUs:            cpus,
		TotalMemory:     gigabytes(vm.Total),
		UsedMemory:      gigabytes(vm.Used),
		Uptime:          h.Uptime,
	}, nil
}

func gigabytes(b uint64) float64 {
	return math.Round(float64(b)/(1<<30)*100) / 100
}

// primaryIP returns the first IPv4 address of an interface that is up and not
// a loopback, or "" when there is none.
func primaryIP(ctx context.Context) string {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if hasFlag(iface.Flags, "loopback") || !hasFlag(iface.Flags, "up") {
			continue
		}
		for _, a := range iface.Addrs {
			ip, _, _ := strings.Cut(a.Addr, "/")
			if !strings.Contains(ip, ":") {
				return ip
			}
		}
	}
	return ""
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

// ── Controller ────────────────────────────────────────────────────────────────

// Controller serves /health and /health/info.
type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller { return &Controller{svc: svc} }

func (c *Controller) Prefix() string { return "/health" }

func (c *Controller) Routes() []routing.Route {
	return []routing.Route{
		routing.Get("", func(context.Context, []any) (any, error) {
			return c.svc.Status(), nil
		}).Named("health.status"),
		routing.Get("/info", func(ctx context.Context, _ []any) (any, error) {
			return c.svc.Info(ctx)
		}).Named("health.info"),
	}
}
