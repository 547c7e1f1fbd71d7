package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Daily-rotating log file naming, per the DOMAIN STACK's
 *		lestrrat-go/strftime entry.
 *
 * Description:	The teacher's log.go picks a new file name at local
 *		midnight (g_daily_names, formatted via Go's reference-time
 *		layout "2006-01-02.log"). strftime gives the same rotation
 *		scheme a pattern parameter instead of a hardcoded Go
 *		layout string. cmd/ryfi always passes
 *		DefaultLogFilePattern; no flag or --config field sets
 *		another pattern.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"
)

// DefaultLogFilePattern matches the teacher's "YYYY-MM-DD.log" daily
// rotation.
const DefaultLogFilePattern = "%Y-%m-%d.log"

// DailyLogFile keeps one os.File open at a time, reopening a new path
// whenever the strftime-rendered name for the current instant changes.
type DailyLogFile struct {
	mu sync.Mutex

	dir     string
	pattern *strftime.Strftime

	openName string
	f        *os.File
}

// NewDailyLogFile creates a rotator writing into dir, naming files per
// pattern (an empty pattern uses DefaultLogFilePattern).
func NewDailyLogFile(dir, pattern string) (*DailyLogFile, error) {
	if pattern == "" {
		pattern = DefaultLogFilePattern
	}

	p, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("logfile: parsing pattern %q: %w", pattern, err)
	}

	return &DailyLogFile{dir: dir, pattern: p}, nil
}

// Write appends a line to the file for the current instant, rotating to
// a new file first if the name has changed since the last write.
func (d *DailyLogFile) Write(line string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := d.pattern.FormatString(time.Now())

	if name != d.openName {
		if d.f != nil {
			d.f.Close()
		}

		path := filepath.Join(d.dir, name)

		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("logfile: opening %s: %w", path, err)
		}

		d.f = f
		d.openName = name
	}

	if _, err := d.f.WriteString(line); err != nil {
		return fmt.Errorf("logfile: writing to %s: %w", d.openName, err)
	}

	return nil
}

// Close releases the currently open file, if any.
func (d *DailyLogFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.f == nil {
		return nil
	}

	err := d.f.Close()
	d.f = nil

	return err
}
