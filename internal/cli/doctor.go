package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/keyring"
	"github.com/julianstephens/korastor/internal/storage"
	"github.com/julianstephens/korastor/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	fail := func(name string, err error) {
		ctx.printf("❌ %s: FAIL\n", name)
		ctx.printf("   Error: %v\n", err)
		hasError = true
	}

	// Check 1: storage reachable
	reachable := true
	if err := checkStorageReachable(ctx); err != nil {
		fail("Storage reachable", err)
		reachable = false
	} else {
		ctx.printf("✓ Storage reachable: OK (%s)\n", ctx.Provider.Describe())
	}

	// Checks 2 and 3: schema, SQL backends only
	if m, ok := ctx.Provider.(storage.Migrator); ok && reachable {
		current, latest, err := schemaVersion(ctx, m)
		switch {
		case err != nil:
			fail("Schema version", err)
		case current > latest:
			fail("Schema version", fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest))
		default:
			ctx.printf("✓ Schema version: OK (v%d)\n", current)
		}
		if err == nil && current < latest {
			fail("Migrations complete", fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest))
		} else if err == nil {
			ctx.println("✓ Migrations complete: OK")
		}
	} else {
		ctx.println("⊘ Schema version: SKIPPED (no schema for this backend)")
	}

	// Check 4: saved state readable
	if err := ctx.Store.LoadErr(); err != nil {
		fail("Saved state readable", fmt.Errorf("%w (running on defaults)", err))
	} else {
		ctx.println("✓ Saved state readable: OK")
	}

	// Check 5: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		ctx.println("⚠ Backups present: WARNING")
		ctx.printf("   %v\n", err)
	} else {
		ctx.println("✓ Backups present: OK")
	}

	// Check 6: data validation
	if reachable {
		if res := validation.State(ctx.Store.State(), ctx.Now().UnixMilli()); res.HasIssues() {
			fail("Data validation", errors.New(res.FormatReport()))
		} else {
			ctx.println("✓ Data validation: OK")
		}
	} else {
		ctx.println("⊘ Data validation: SKIPPED (storage not reachable)")
	}

	// Check 7: keyring (warning only)
	if keyring.IsAvailable() {
		ctx.println("✓ OS keyring: OK")
	} else {
		ctx.println("⚠ OS keyring: WARNING")
		ctx.println("   not available; use environment variables for secrets")
	}

	// Check 8: clock sanity
	if err := checkClock(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ctx.println("✓ Clock/timezone: OK")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	p, ok := ctx.Provider.(storage.Pinger)
	if !ok {
		return nil
	}
	c, cancel := context.WithTimeout(ctx.Ctx(), constants.StorageOpTimeout)
	defer cancel()
	return p.Ping(c)
}

func schemaVersion(ctx *Context, m storage.Migrator) (int, int, error) {
	c, cancel := context.WithTimeout(ctx.Ctx(), constants.StorageOpTimeout)
	defer cancel()
	return m.SchemaVersion(c)
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'korastor backup create'")
	}
	return nil
}

func checkClock(ctx *Context) error {
	now := ctx.Now()
	if now.Location() == nil {
		return errors.New("no local timezone")
	}
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if p := ctx.Store.State().UserProfile; p != nil && p.StartDate > now.UnixMilli() {
		return fmt.Errorf("journey start %s is in the future", time.UnixMilli(p.StartDate).Format(time.RFC3339))
	}
	return nil
}
