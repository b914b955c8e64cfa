package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler manages CPU and memory profiling for a run.
type Profiler struct {
	cpuFile *os.File

	cpuProfile string
	memProfile string
}

// NewProfiler creates a new profiler with the specified profile paths.
// Empty paths disable the corresponding profile.
func NewProfiler(cpuProfile, memProfile string) *Profiler {
	return &Profiler{
		cpuProfile: cpuProfile,
		memProfile: memProfile,
	}
}

// Start begins CPU profiling if configured.
func (p *Profiler) Start() error {
	if p.cpuProfile == "" {
		return nil
	}
	f, err := os.Create(p.cpuProfile)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	p.cpuFile = f
	if err := pprof.StartCPUProfile(f); err != nil {
		p.cpuFile.Close()
		p.cpuFile = nil
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	return nil
}

// Stop finishes CPU profiling and writes the memory profile if configured.
func (p *Profiler) Stop() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
	}

	if p.memProfile != "" {
		f, err := os.Create(p.memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
		}
	}
}
