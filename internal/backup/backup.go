// Package backup keeps rotating JSON snapshots of the app state next to the
// configuration directory.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/logger"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/state"
	"github.com/julianstephens/korastor/internal/utils"
	"github.com/julianstephens/korastor/internal/validation"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

var ErrInvalidBackup = errors.New("backup file is corrupted or invalid")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// Target is where a backup is taken from and restored into. *state.Store
// satisfies it.
type Target interface {
	State() models.AppState
	Dispatch(ctx context.Context, action state.Action) error
}

// Manager handles backup operations
type Manager struct {
	backupDir string
	clock     utils.Clock
	log       *log.Logger
}

// NewManager creates a manager writing to <configDir>/backups.
func NewManager(configDir string, clock utils.Clock) *Manager {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Manager{
		backupDir: filepath.Join(configDir, constants.BackupDirName),
		clock:     clock,
		log:       logger.Named("backup"),
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup writes s to a new timestamped file and prunes old ones.
func (m *Manager) CreateBackup(s models.AppState) (string, error) {
	return m.createBackup(s, false)
}

// createBackup skips rotation when taking the safety copy during a restore
func (m *Manager) createBackup(s models.AppState, skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	blob, err := state.Encode(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}

	backupPath, err := m.uniquePath()
	if err != nil {
		return "", err
	}
	if err := writeFile(backupPath, blob); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	m.log.Debug("Backup written", "path", backupPath, "bytes", len(blob))

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			m.log.Warn("Failed to rotate old backups", "error", err)
		}
	}
	return backupPath, nil
}

// uniquePath tries minute precision, then seconds, then a counter.
func (m *Manager) uniquePath() (string, error) {
	now := m.clock.Now()
	candidate := m.pathFor(now.Format(minuteLayout))
	if !exists(candidate) {
		return candidate, nil
	}

	stamp := now.Format(secondLayout)
	candidate = m.pathFor(stamp)
	for counter := 1; exists(candidate); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		candidate = m.pathFor(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return candidate, nil
}

func (m *Manager) pathFor(stamp string) string {
	return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp and collision counter from a backup file
// name (korastor-YYYYMMDD-HHMM[SS][-N].json).
func parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, 0, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	seq := 0
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, 0, false
		}
		seq = n
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.Parse(layout, stamp); err == nil {
			return ts, seq, true
		}
	}
	return time.Time{}, 0, false
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// ReadBackup decodes and validates a backup file.
func (m *Manager) ReadBackup(backupPath string) (models.AppState, error) {
	blob, err := os.ReadFile(backupPath)
	if errors.Is(err, os.ErrNotExist) {
		return models.AppState{}, fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to read backup: %w", err)
	}

	s, err := state.Decode(blob)
	if err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if err := validation.State(s, m.clock.Now().UnixMilli()).Err(); err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return s, nil
}

// RestoreBackup replaces target's state with the backup's, first saving the
// current state so the restore can be undone. It returns the path of that
// safety copy.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string, target Target) (string, error) {
	restored, err := m.ReadBackup(backupPath)
	if err != nil {
		return "", err
	}

	current, err := m.createBackup(target.State(), true)
	if err != nil {
		return "", fmt.Errorf("failed to backup current state before restore: %w", err)
	}

	if err := target.Dispatch(ctx, state.LoadState{State: restored}); err != nil {
		return current, fmt.Errorf("failed to restore state: %w", err)
	}
	m.log.Info("State restored", "from", filepath.Base(backupPath), "previous", filepath.Base(current))
	return current, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFile writes through a temporary file and rename.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
