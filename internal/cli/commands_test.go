package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/notifier"
	"github.com/julianstephens/korastor/internal/state"
)

func TestInitWithFlags(t *testing.T) {
	env := setupContext(t, false)
	cmd := &InitCmd{
		Habit:     []string{"vape"},
		Units:     5,
		Cost:      2,
		Strength:  "low",
		NorthStar: "vitality",
		Reward:    "Bike",
		Price:     300,
	}

	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(env.output(), "Journey started") {
		t.Error("missing confirmation")
	}
	profile := env.ctx.Store.State().UserProfile
	if profile == nil || profile.StartDate != testStart.UnixMilli() || profile.NorthStar != models.NorthStarVitality {
		t.Fatalf("profile = %+v", profile)
	}
	if _, ok := env.mem.Peek(constants.AppStateKey); !ok {
		t.Error("state not persisted")
	}

	if err := cmd.Run(env.ctx); err == nil || !strings.Contains(err.Error(), "already") {
		t.Errorf("second Run() error = %v, want already in progress", err)
	}

	env.clock.Advance(72 * time.Hour)
	cmd.Force = true
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("Run(--force) error = %v", err)
	}
	if got := env.ctx.Store.State().UserProfile.StartDate; got != env.clock.Now().UnixMilli() {
		t.Errorf("StartDate = %d, want restart at now", got)
	}
	backups, err := env.ctx.Backups().ListBackups()
	if err != nil || len(backups) != 1 {
		t.Errorf("ListBackups() = %d, %v, want one backup of the old journey", len(backups), err)
	}
}

func TestInitRejectsInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		cmd  InitCmd
	}{
		{"unknown habit", InitCmd{Habit: []string{"cigar"}, Units: 1, Cost: 1, Strength: "low", NorthStar: "wealth", Reward: "x", Price: 1}},
		{"zero units", InitCmd{Habit: []string{"smoke"}, Units: 0, Cost: 1, Strength: "low", NorthStar: "wealth", Reward: "x", Price: 1}},
		{"bad north star", InitCmd{Habit: []string{"smoke"}, Units: 1, Cost: 1, Strength: "low", NorthStar: "fame", Reward: "x", Price: 1}},
		{"no reward", InitCmd{Habit: []string{"smoke"}, Units: 1, Cost: 1, Strength: "low", NorthStar: "wealth", Price: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupContext(t, false)
			if err := tt.cmd.Run(env.ctx); err == nil {
				t.Fatal("Run() succeeded, want error")
			}
			if env.ctx.Store.State().HasProfile() {
				t.Error("profile set despite invalid input")
			}
		})
	}
}

func TestCommandsRequireProfile(t *testing.T) {
	env := setupContext(t, false)
	cmds := map[string]interface{ Run(*Context) error }{
		"status":     &StatusCmd{},
		"health":     &HealthCmd{},
		"vault":      &VaultCmd{},
		"slip":       &SlipCmd{Trigger: "stress"},
		"milestones": &MilestonesCmd{},
	}
	for name, cmd := range cmds {
		if err := cmd.Run(env.ctx); !errors.Is(err, ErrNoProfile) {
			t.Errorf("%s: error = %v, want ErrNoProfile", name, err)
		}
	}
}

func TestStatus(t *testing.T) {
	env := setupContext(t, true)
	env.clock.Advance(10*24*time.Hour + 3*time.Hour)

	if err := (&StatusCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := env.output()
	for _, want := range []string{"Day 10", "10 days, 3 hours", "$100.00", "Headphones 50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}

	if got := env.ctx.Store.State().MoneySaved; got != 100 {
		t.Errorf("cached MoneySaved = %v, want 100", got)
	}
}

func TestStatusJSON(t *testing.T) {
	env := setupContext(t, true)
	env.clock.Advance(48 * time.Hour)

	if err := (&StatusCmd{JSON: true}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := env.output()
	if !strings.Contains(out, `"daysAbstinent": 2`) || !strings.Contains(out, `"moneySaved": 20`) {
		t.Errorf("unexpected JSON:\n%s", out)
	}
}

func TestHealthAndVault(t *testing.T) {
	env := setupContext(t, true)
	env.clock.Advance(25 * 24 * time.Hour)

	if err := (&HealthCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	out := env.output()
	if !strings.Contains(out, "✓ Blood Oxygen") || !strings.Contains(out, "RESTORED") {
		t.Errorf("health output:\n%s", out)
	}

	if err := (&VaultCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.output(); !strings.Contains(out, "Unlocked") {
		t.Errorf("vault after $250 saved toward $200:\n%s", out)
	}
}

func TestSlip(t *testing.T) {
	env := setupContext(t, true)
	env.clock.Advance(5 * 24 * time.Hour)

	if err := (&SlipCmd{Trigger: "Alcohol", Emotion: "guilty"}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := env.output()
	if !strings.Contains(out, "No Judgment Zone") || !strings.Contains(out, "Alcohol lowers your guard") {
		t.Errorf("slip output:\n%s", out)
	}

	streak := env.ctx.Store.State().StreakData
	if len(streak.SlipUps) != 1 || streak.LastConsumptionDate == nil || *streak.LastConsumptionDate != env.clock.Now().UnixMilli() {
		t.Fatalf("streak = %+v", streak)
	}
	if streak.SlipUps[0].Emotion != models.EmotionGuilty {
		t.Errorf("emotion = %q", streak.SlipUps[0].Emotion)
	}

	if err := (&SlipCmd{Trigger: "boredom"}).Run(env.ctx); err != nil {
		t.Fatalf("Run() without emotion error = %v", err)
	}
	if got := env.ctx.Store.State().StreakData.SlipUps[1].Emotion; got != models.EmotionFine {
		t.Errorf("default emotion = %q, want fine", got)
	}

	for _, cmd := range []*SlipCmd{{Trigger: "weather"}, {Trigger: "stress", Emotion: "angry"}} {
		if err := cmd.Run(env.ctx); err == nil {
			t.Errorf("Run(%+v) succeeded, want error", cmd)
		}
	}
	if n := len(env.ctx.Store.State().StreakData.SlipUps); n != 2 {
		t.Errorf("got %d slip-ups, want 2", n)
	}
}

func TestSlips(t *testing.T) {
	env := setupContext(t, true)
	if err := (&SlipsCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.output(), "No slip-ups") {
		t.Error("expected empty history message")
	}

	for _, trig := range []models.TriggerType{models.TriggerStress, models.TriggerSocial, models.TriggerStress} {
		env.clock.Advance(time.Hour)
		if _, err := env.ctx.Store.LogSlipUp(context.Background(), trig, models.EmotionAnxious, env.clock.Now()); err != nil {
			t.Fatal(err)
		}
	}
	env.output()

	if err := (&SlipsCmd{Limit: 2}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	out := env.output()
	if !strings.Contains(out, "3 total") {
		t.Errorf("slips output:\n%s", out)
	}
	if strings.Index(out, "Stress") > strings.Index(out, "Social Pressure") {
		t.Errorf("most frequent trigger should come first:\n%s", out)
	}
	if n := strings.Count(out, "felt anxious"); n != 2 {
		t.Errorf("listed %d slip-ups, want 2", n)
	}
}

func TestCravingPlain(t *testing.T) {
	env := setupContext(t, false)
	sleeps := 0
	env.ctx.Sleep = func(d time.Duration) {
		if d != time.Second {
			t.Errorf("sleep(%v), want 1s", d)
		}
		sleeps++
	}

	if err := (&CravingCmd{Task: "count-breaths", Plain: true}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sleeps != 60 {
		t.Errorf("slept %d times, want 60", sleeps)
	}
	out := env.output()
	if !strings.Contains(out, "Take 10 deep breaths") || !strings.Contains(out, "1:00") || !strings.Contains(out, "Craving crushed") {
		t.Errorf("craving output:\n%s", out)
	}
	if got := env.ctx.Store.State().KoraPoints; got.Total != 1 || got.EarnedToday != 1 {
		t.Errorf("points = %+v, want 1/1", got)
	}
}

func TestCravingListAndUnknownTask(t *testing.T) {
	env := setupContext(t, false)
	if err := (&CravingCmd{List: true}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.output(); strings.Count(out, "\n") != 6 || !strings.Contains(out, "find-blue") {
		t.Errorf("task list:\n%s", out)
	}
	if err := (&CravingCmd{Task: "juggle", Plain: true}).Run(env.ctx); err == nil {
		t.Error("unknown task accepted")
	}
}

func TestPoints(t *testing.T) {
	env := setupContext(t, false)
	if _, err := env.ctx.Store.AwardCravingPoint(context.Background(), env.clock.Now()); err != nil {
		t.Fatal(err)
	}
	env.clock.Advance(24 * time.Hour)

	if err := (&PointsCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	out := env.output()
	if !strings.Contains(out, "Kora points: 1") || !strings.Contains(out, "Earned today: 0") {
		t.Errorf("points output:\n%s", out)
	}
}

func TestReset(t *testing.T) {
	env := setupContext(t, true)

	env.ctx.In = strings.NewReader("n\n")
	if err := (&ResetCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !env.ctx.Store.State().HasProfile() {
		t.Fatal("declined reset still cleared the journey")
	}
	if !strings.Contains(env.output(), "cancelled") {
		t.Error("missing cancel message")
	}

	env.ctx.In = strings.NewReader("y\n")
	if err := (&ResetCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	s := env.ctx.Store.State()
	if s.HasProfile() || len(s.StreakData.SlipUps) != 0 {
		t.Errorf("state after reset = %+v", s)
	}
	backups, _ := env.ctx.Backups().ListBackups()
	if len(backups) != 1 {
		t.Errorf("got %d backups, want 1 taken before reset", len(backups))
	}

	if err := (&ResetCmd{Yes: true}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.output(), "Nothing to reset") {
		t.Error("reset without a journey should be a no-op")
	}
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func TestMilestones(t *testing.T) {
	env := setupContext(t, true)
	n := &fakeNotifier{}
	env.ctx.Notifier = n
	env.clock.Advance(49 * time.Hour)

	if err := (&MilestonesCmd{Notify: true}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	want := []string{"Blood Oxygen RESTORED", "Taste/Smell RESTORED"}
	if len(n.sent) != 2 || n.sent[0] != want[0] || n.sent[1] != want[1] {
		t.Errorf("sent = %v, want %v", n.sent, want)
	}
	if !env.ctx.Store.State().HealthSystems[1].Restored() {
		t.Error("stored health systems not refreshed")
	}

	env.output()
	if err := (&MilestonesCmd{Notify: true}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.output(), "No new milestones") || len(n.sent) != 2 {
		t.Error("milestones reported twice")
	}
}

func TestMilestonesWithoutTray(t *testing.T) {
	env := setupContext(t, true)
	env.ctx.Notifier = &fakeNotifier{err: notifier.ErrTrayNotRunning}
	env.clock.Advance(49 * time.Hour)

	if err := (&MilestonesCmd{Notify: true}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out := env.output(); !strings.Contains(out, "Tray app not running") || !strings.Contains(out, "Blood Oxygen RESTORED") {
		t.Errorf("output:\n%s", out)
	}
}

func TestBackupCommands(t *testing.T) {
	env := setupContext(t, true)

	if err := (&BackupListCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.output(), "No backups found") {
		t.Error("expected empty list")
	}

	if err := (&BackupCreateCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.output(), "✓ Backup created: korastor-") {
		t.Error("missing create confirmation")
	}
	backups, err := env.ctx.Backups().ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups() = %v, %v", backups, err)
	}

	if err := (&BackupListCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.output(); !strings.Contains(out, filepath.Base(backups[0].Path)) {
		t.Errorf("list output:\n%s", out)
	}

	env.clock.Advance(time.Hour)
	if _, err := env.ctx.Store.LogSlipUp(context.Background(), models.TriggerStress, models.EmotionFine, env.clock.Now()); err != nil {
		t.Fatal(err)
	}

	restore := &BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}
	if err := restore.Run(env.ctx); err != nil {
		t.Fatalf("restore error = %v", err)
	}
	if n := len(env.ctx.Store.State().StreakData.SlipUps); n != 0 {
		t.Errorf("got %d slip-ups after restore, want 0", n)
	}
	if !strings.Contains(env.output(), "Previous state saved as") {
		t.Error("missing safety backup note")
	}

	if err := (&BackupRestoreCmd{BackupFile: "missing.json", Yes: true}).Run(env.ctx); err == nil {
		t.Error("restore of a missing file succeeded")
	}
}

func TestBackupRestoreDeclined(t *testing.T) {
	env := setupContext(t, true)
	path, err := env.ctx.Backups().CreateBackup(env.ctx.Store.State())
	if err != nil {
		t.Fatal(err)
	}
	if err := env.ctx.Store.Reset(context.Background()); err != nil {
		t.Fatal(err)
	}

	env.ctx.In = strings.NewReader("no\n")
	if err := (&BackupRestoreCmd{BackupFile: path}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if env.ctx.Store.State().HasProfile() {
		t.Error("declined restore was applied")
	}
}

func TestDoctor(t *testing.T) {
	gokeyring.MockInit()
	env := setupContext(t, true)
	env.clock.Advance(24 * time.Hour)

	if err := (&DoctorCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v\n%s", err, env.out.String())
	}
	out := env.output()
	for _, want := range []string{"✓ Storage reachable: OK (memory)", "⊘ Schema version: SKIPPED", "⚠ Backups present: WARNING", "✓ Data validation: OK", "All diagnostics passed!"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorReportsFutureStart(t *testing.T) {
	gokeyring.MockInit()
	env := setupContext(t, true)
	env.clock.Set(testStart.Add(-48 * time.Hour))

	if err := (&DoctorCmd{}).Run(env.ctx); err == nil {
		t.Fatal("Run() succeeded with a journey starting in the future")
	}
	out := env.output()
	if !strings.Contains(out, "❌ Data validation: FAIL") || !strings.Contains(out, "❌ Clock/timezone: FAIL") {
		t.Errorf("doctor output:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	env := setupContext(t, true)
	if err := (&ValidateCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(env.output(), "No issues detected.") {
		t.Error("missing clean report")
	}
}

func TestDebugCommands(t *testing.T) {
	env := setupContext(t, true)

	if err := (&DebugDumpStateCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	dumped, err := state.Decode(env.out.Bytes())
	if err != nil {
		t.Fatalf("dump is not a valid state: %v", err)
	}
	if dumped.UserProfile == nil || dumped.UserProfile.RewardVault.ItemName != "Headphones" {
		t.Errorf("dumped profile = %+v", dumped.UserProfile)
	}
	env.output()

	if err := (&DebugBackendCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.output(); !strings.Contains(out, `"backend": "memory"`) {
		t.Errorf("backend output:\n%s", out)
	}

	if err := (&DebugSnapshotCmd{}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if out := env.output(); !strings.Contains(out, `"HasProfile": true`) {
		t.Errorf("snapshot output:\n%s", out)
	}
}
