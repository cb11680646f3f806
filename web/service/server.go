package service

import (
	"runtime"
	"time"

	"user-panel/config"
	"user-panel/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/atomic"
)

var startTime = time.Now()

// Panel counters, process lifetime only.
var (
	loginSuccesses atomic.Int64
	loginFailures  atomic.Int64
	registrations  atomic.Int64
	resetRequests  atomic.Int64
)

func CountLoginSuccess() { loginSuccesses.Inc() }
func CountLoginFailure() { loginFailures.Inc() }
func CountRegistration() { registrations.Inc() }
func CountResetRequest() { resetRequests.Inc() }

// Status represents system and application status information served to
// administrators.
type Status struct {
	T        time.Time `json:"-"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Swap struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"swap"`
	Disk struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"disk"`
	Uptime   uint64    `json:"uptime"`
	Loads    []float64 `json:"loads"`
	AppStats struct {
		Version        string `json:"version"`
		Uptime         uint64 `json:"uptime"`
		Threads        uint32 `json:"threads"`
		LoginSuccesses int64  `json:"loginSuccesses"`
		LoginFailures  int64  `json:"loginFailures"`
		Registrations  int64  `json:"registrations"`
		ResetRequests  int64  `json:"resetRequests"`
	} `json:"appStats"`
}

type ServerService struct{}

// GetStatus collects a point-in-time snapshot. Collection failures are
// logged and leave the affected field zeroed.
func (s *ServerService) GetStatus() *Status {
	now := time.Now()
	status := &Status{T: now}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	status.CpuCores, err = cpu.Counts(false)
	if err != nil {
		logger.Warning("get cpu core count failed:", err)
	}

	upTime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	swapInfo, err := mem.SwapMemory()
	if err != nil {
		logger.Warning("get swap memory failed:", err)
	} else {
		status.Swap.Current = swapInfo.Used
		status.Swap.Total = swapInfo.Total
	}

	diskInfo, err := disk.Usage("/")
	if err != nil {
		logger.Warning("get disk usage failed:", err)
	} else {
		status.Disk.Current = diskInfo.Used
		status.Disk.Total = diskInfo.Total
	}

	avgState, err := load.Avg()
	if err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		status.Loads = []float64{avgState.Load1, avgState.Load5, avgState.Load15}
	}

	status.AppStats.Version = config.GetVersion()
	status.AppStats.Uptime = uint64(now.Sub(startTime).Seconds())
	status.AppStats.Threads = uint32(runtime.NumGoroutine())
	status.AppStats.LoginSuccesses = loginSuccesses.Load()
	status.AppStats.LoginFailures = loginFailures.Load()
	status.AppStats.Registrations = registrations.Load()
	status.AppStats.ResetRequests = resetRequests.Load()

	return status
}
