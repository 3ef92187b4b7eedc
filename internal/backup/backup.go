// Package backup writes rotating JSON snapshots of the tracker data.
package backup

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/shiftbase/internal/export"
	"github.com/Tiliavir/shiftbase/internal/model"
)

// DefaultKeep is how many snapshots survive rotation.
const DefaultKeep = 14

const (
	filePrefix = "shiftbase-"
	fileSuffix = ".json"
)

// Info describes one snapshot on disk.
type Info struct {
	Path    string
	Name    string
	Created time.Time
	Size    int64
	seq     int
}

// Manager owns a backup directory.
type Manager struct {
	dir  string
	keep int
	now  func() time.Time
	stat func(string) (os.FileInfo, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithKeep overrides DefaultKeep.
func WithKeep(n int) Option {
	return func(m *Manager) { m.keep = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New returns a Manager for dir. The directory is created on first write.
func New(dir string, opts ...Option) *Manager {
	m := &Manager{dir: dir, keep: DefaultKeep, now: time.Now, stat: os.Stat}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// Create writes data as a new snapshot and prunes old ones.
func (m *Manager) Create(data model.ExportData) (string, error) {
	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	var buf bytes.Buffer
	if err := export.JSON(&buf, data); err != nil {
		return "", err
	}

	path, err := m.freePath(m.now())
	if err != nil {
		return "", err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("saving backup: %w", err)
	}

	if err := m.rotate(); err != nil {
		return path, err
	}
	return path, nil
}

// freePath picks shiftbase-YYYYMMDD-HHMM.json, adding seconds and then a
// counter when that name is taken.
func (m *Manager) freePath(t time.Time) (string, error) {
	t = t.Local()
	base := filePrefix + t.Format("20060102-150405")
	for n := 0; ; n++ {
		var name string
		switch n {
		case 0:
			name = filePrefix + t.Format("20060102-1504") + fileSuffix
		case 1:
			name = base + fileSuffix
		default:
			name = base + "-" + strconv.Itoa(n) + fileSuffix
		}
		p := filepath.Join(m.dir, name)
		_, err := m.stat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return p, nil
		case err != nil:
			return "", fmt.Errorf("checking backup name: %w", err)
		}
	}
}

// parseName extracts the timestamp and collision sequence from a snapshot
// file name.
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)

	seq := 0
	// stamp is "YYYYMMDD-HHMM[SS][-N]".
	if date, rest, ok := strings.Cut(stamp, "-"); ok {
		clock, n, hasCounter := strings.Cut(rest, "-")
		if hasCounter {
			v, err := strconv.Atoi(n)
			if err != nil {
				return time.Time{}, 0, false
			}
			seq = v
		}
		stamp = date + "-" + clock
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			if layout == "20060102-150405" && seq == 0 {
				seq = 1
			}
			return t, seq, true
		}
	}
	return time.Time{}, 0, false
}

// List returns snapshots newest first.
func (m *Manager) List() ([]Info, error) {
	dirEntries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var infos []Info
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		created, seq, ok := parseName(de.Name())
		if !ok {
			continue
		}
		var size int64
		if fi, err := de.Info(); err == nil {
			size = fi.Size()
		}
		infos = append(infos, Info{
			Path:    filepath.Join(m.dir, de.Name()),
			Name:    de.Name(),
			Created: created,
			Size:    size,
			seq:     seq,
		})
	}

	slices.SortFunc(infos, func(a, b Info) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return b.seq - a.seq
	})
	return infos, nil
}

// Latest returns the newest snapshot. ok is false when there are none.
func (m *Manager) Latest() (Info, bool, error) {
	infos, err := m.List()
	if err != nil || len(infos) == 0 {
		return Info{}, false, err
	}
	return infos[0], true, nil
}

func (m *Manager) rotate() error {
	if m.keep <= 0 {
		return nil
	}
	infos, err := m.List()
	if err != nil {
		return err
	}
	for _, info := range infos[min(m.keep, len(infos)):] {
		if err := os.Remove(info.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing old backup %s: %w", info.Name, err)
		}
	}
	return nil
}

// Restore reads a snapshot. name may be a bare file name within the backup
// directory or a path.
func (m *Manager) Restore(name string) (model.ExportData, error) {
	path := name
	if !strings.ContainsRune(name, os.PathSeparator) {
		path = filepath.Join(m.dir, name)
	}
	f, err := os.Open(path)
	if err != nil {
		return model.ExportData{}, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()
	return export.ParseJSON(f)
}

// Due reports whether a new automatic backup should be written. A zero last
// time is always due.
func Due(last time.Time, freq model.BackupFrequency, now time.Time) bool {
	if last.IsZero() {
		return true
	}
	var next time.Time
	switch freq {
	case model.BackupDaily:
		next = last.Add(24 * time.Hour)
	case model.BackupMonthly:
		next = last.AddDate(0, 1, 0)
	default:
		next = last.Add(7 * 24 * time.Hour)
	}
	return !now.Before(next)
}
