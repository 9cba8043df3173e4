package telemetry

import (
	"runtime"
	"time"

	"github.com/prometheus/procfs"
)

// Sample is a point-in-time reading of process resources.
type Sample struct {
	RSS        uint64
	CPUSeconds float64
	At         time.Time
}

// Sampler reads process resources.
type Sampler interface {
	Sample() (Sample, error)
}

// ProcSampler reads /proc/self/stat. Where procfs is not mounted it falls back
// to the Go runtime's view of memory and reports no CPU time.
type ProcSampler struct {
	now func() time.Time
}

// NewProcSampler returns a sampler for the current process.
func NewProcSampler() *ProcSampler {
	return &ProcSampler{now: time.Now}
}

func (s *ProcSampler) Sample() (Sample, error) {
	at := s.now()
	proc, err := procfs.Self()
	if err != nil {
		return runtimeSample(at), nil
	}
	stat, err := proc.Stat()
	if err != nil {
		return runtimeSample(at), nil
	}
	return Sample{
		RSS:        uint64(stat.ResidentMemory()),
		CPUSeconds: stat.CPUTime(),
		At:         at,
	}, nil
}

func runtimeSample(at time.Time) Sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Sample{RSS: ms.Sys, At: at}
}
