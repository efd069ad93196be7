package scheduler

import (
	"fmt"
	"os"
	"sort"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v2"
)

// Schedule maps job names to standard five-field cron specs.
// An empty spec disables the job.
type Schedule map[string]string

// DefaultSchedule takes the daily snapshot at 23:55 and syncs every six hours.
func DefaultSchedule() Schedule {
	return Schedule{
		JobSnapshot: "55 23 * * *",
		JobSync:     "0 */6 * * *",
	}
}

type scheduleFile struct {
	Jobs map[string]string `yaml:"jobs"`
}

// LoadSchedule reads a YAML schedule file and layers it over the defaults:
//
//	jobs:
//	  sync: "0 */4 * * *"
//	  refresh_balances: "30 6 * * *"
//	  snapshot: ""
//
// An empty path returns the defaults.
func LoadSchedule(path string) (Schedule, error) {
	schedule := DefaultSchedule()
	if path == "" {
		return schedule, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	for name, spec := range file.Jobs {
		schedule[name] = spec
	}

	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule in %s: %w", path, err)
	}
	return schedule, nil
}

// Validate checks job names and cron specs.
func (s Schedule) Validate() error {
	for _, name := range s.Names() {
		if _, ok := scheduledJobs[name]; !ok {
			return fmt.Errorf("unknown job %q", name)
		}
		spec := s[name]
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("job %q: %w", name, err)
		}
	}
	return nil
}

// Names returns the job names in a stable order.
func (s Schedule) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var scheduledJobs = map[string]struct{}{
	JobSync:            {},
	JobRefreshBalances: {},
	JobSyncLiabilities: {},
	JobSnapshot:        {},
}
