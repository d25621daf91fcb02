package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/korastor/internal/backup"
	kerrors "github.com/julianstephens/korastor/internal/errors"
	"github.com/julianstephens/korastor/internal/logger"
	"github.com/julianstephens/korastor/internal/metrics"
	"github.com/julianstephens/korastor/internal/state"
	"github.com/julianstephens/korastor/internal/storage"
	"github.com/julianstephens/korastor/internal/utils"
)

// ErrNoProfile is returned by commands that need a completed onboarding.
var ErrNoProfile = kerrors.WithHint(errors.New("no journey started yet"), "run 'korastor init' to set up your profile")

// Notifier delivers a milestone message. *notifier.Notifier satisfies it.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Context carries what every command needs. main builds it once and closes
// the store on exit.
type Context struct {
	Store     *state.Store
	Provider  storage.Provider
	Clock     utils.Clock
	ConfigDir string
	Notifier  Notifier
	Out       io.Writer
	In        io.Reader
	// Sleep paces non-interactive countdowns
	Sleep func(time.Duration)
	// Base is the process context; commands derive timeouts from it
	Base context.Context
}

func (c *Context) Ctx() context.Context {
	if c.Base != nil {
		return c.Base
	}
	return context.Background()
}

func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// confirm asks a yes/no question on In. Anything but y or yes is a no.
func (c *Context) confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	fmt.Fprintf(c.out(), "%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func (c *Context) sleep(d time.Duration) {
	if c.Sleep != nil {
		c.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Snapshot refreshes the cached derived values and returns the current
// metrics. A refresh failure only costs the cache, so it is logged.
func (c *Context) Snapshot() metrics.Snapshot {
	now := c.Now()
	if err := c.Store.RefreshDerived(c.Ctx(), now); err != nil {
		logger.Warn("Failed to refresh derived values", "error", err)
	}
	return c.Store.Snapshot(now)
}

// requireProfile fails with a hint when onboarding has not been completed.
func (c *Context) requireProfile() error {
	if !c.Store.State().HasProfile() {
		return ErrNoProfile
	}
	return nil
}

func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.ConfigDir, c.Clock)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.Store.State().HasProfile() {
		return
	}
	if _, err := c.Backups().CreateBackup(c.Store.State()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
