package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/korastor/internal/state"
)

type DebugCmd struct {
	Backend   DebugBackendCmd   `cmd:"" help:"Show the storage backend."`
	DumpState DebugDumpStateCmd `cmd:"" help:"Dump the stored state as JSON."`
	Snapshot  DebugSnapshotCmd  `cmd:"" help:"Dump the derived metrics as JSON."`
}

type DebugBackendCmd struct{}

func (cmd *DebugBackendCmd) Run(ctx *Context) error {
	return printJSON(ctx, map[string]string{
		"backend":   ctx.Provider.Describe(),
		"configDir": ctx.ConfigDir,
	})
}

type DebugDumpStateCmd struct{}

func (cmd *DebugDumpStateCmd) Run(ctx *Context) error {
	blob, err := state.Encode(ctx.Store.State())
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	ctx.println(string(blob))
	return nil
}

type DebugSnapshotCmd struct{}

func (cmd *DebugSnapshotCmd) Run(ctx *Context) error {
	return printJSON(ctx, ctx.Store.Snapshot(ctx.Now()))
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
