// Package system holds host-level helpers: file discovery, resource
// limits and sizing of the worker pool.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit so that many frame files
// can be written in parallel.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("[!] Не удалось получить лимит файлов")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("[!] Не удалось установить лимит файлов")
		return
	}
	log.Debug().Uint64("limit", uint64(rLimit.Cur)).Msg("[*] Системный лимит открытых файлов увеличен")
}

// FindLatest returns the most recently modified regular file in dir whose
// name ends with one of exts (case-insensitive).
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time
	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}
	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	name = strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// Workers picks the worker count: requested when positive, otherwise the
// number of logical CPUs. The result never exceeds jobs and is at least 1.
func Workers(requested, jobs int) int {
	n := requested
	if n <= 0 {
		n = logicalCPUs()
	}
	if jobs > 0 && n > jobs {
		n = jobs
	}
	return max(n, 1)
}

func logicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// CheckMemory fails when more than half of the available memory would be
// needed to hold estimate bytes. An unknown amount of memory is not an
// error.
func CheckMemory(estimate uint64) error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	if estimate > vm.Available/2 {
		return fmt.Errorf("нужно ~%d МБ памяти, доступно %d МБ", estimate>>20, vm.Available>>20)
	}
	return nil
}
