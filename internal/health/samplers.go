package health

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// CPUSampler reports system-wide CPU utilization since the previous call.
// It never blocks.
type CPUSampler struct{}

func (CPUSampler) Sample() (float64, error) {
	pct, err := cpu.Percent(0, false)
	if err != nil {
		return 0, fmt.Errorf("failed to read cpu percent: %w", err)
	}
	if len(pct) == 0 {
		return 0, ErrUnavailable
	}
	return pct[0], nil
}

// GPUSampler asks nvidia-smi for the utilization of the first GPU. Hosts
// without the tool report ErrUnavailable.
type GPUSampler struct {
	Timeout time.Duration
}

const nvidiaSMI = "nvidia-smi"

func (g GPUSampler) Sample() (float64, error) {
	bin, err := exec.LookPath(nvidiaSMI)
	if err != nil {
		return 0, ErrUnavailable
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, "--query-gpu=utilization.gpu", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run %s: %w", nvidiaSMI, err)
	}
	return parseUtilization(out)
}

// parseUtilization reads the first non-empty line of nvidia-smi csv output.
func parseUtilization(out []byte) (float64, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse gpu utilization %q: %w", line, err)
		}
		return v, nil
	}
	return 0, ErrUnavailable
}
