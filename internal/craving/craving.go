// Package craving implements the craving dampener: a short grounding task
// the user completes while a craving passes.
package craving

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/julianstephens/korastor/internal/models"
)

// TaskType groups tasks by what the user does
type TaskType string

const (
	TaskFind    TaskType = "find"
	TaskBreathe TaskType = "breathe"
)

// Task is one micro-task. Duration is in seconds.
type Task struct {
	ID          string
	Type        TaskType
	Instruction string
	Duration    int
}

var tasks = []Task{
	{ID: "find-blue", Type: TaskFind, Instruction: "Find 3 blue things in your room", Duration: 30},
	{ID: "find-round", Type: TaskFind, Instruction: "Find 5 round objects around you", Duration: 30},
	{ID: "find-soft", Type: TaskFind, Instruction: "Touch 3 soft textures", Duration: 30},
	{ID: "count-breaths", Type: TaskBreathe, Instruction: "Take 10 deep breaths with me", Duration: 60},
	{ID: "name-colors", Type: TaskFind, Instruction: "Name 7 different colors you see", Duration: 30},
	{ID: "listen-sounds", Type: TaskFind, Instruction: "Listen for 3 different sounds", Duration: 30},
}

// Tasks returns a copy of every available task.
func Tasks() []Task {
	return append([]Task(nil), tasks...)
}

// Lookup finds a task by ID.
func Lookup(id string) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Source is the randomness a Picker draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Picker chooses a task uniformly at random.
type Picker struct {
	src Source
}

// NewPicker returns a picker over src; nil uses the global generator.
func NewPicker(src Source) *Picker {
	if src == nil {
		src = globalSource{}
	}
	return &Picker{src: src}
}

func (p *Picker) Pick() Task {
	return tasks[p.src.IntN(len(tasks))]
}

var (
	ErrNotFinished    = errors.New("craving task not finished")
	ErrAlreadyAwarded = errors.New("craving task already awarded")
)

// Awarder credits points for a finished task. state.Store satisfies it.
type Awarder interface {
	AwardCravingPoint(ctx context.Context, now time.Time) (models.KoraPoints, error)
}

// Session counts a task down one second per Tick.
type Session struct {
	Task      Task
	remaining int
	awarded   bool
}

func NewSession(task Task) *Session {
	return &Session{Task: task, remaining: task.Duration}
}

// Tick advances the countdown by one second and reports whether the task
// is finished.
func (s *Session) Tick() bool {
	if s.remaining > 0 {
		s.remaining--
	}
	return s.Done()
}

// Remaining returns seconds left, never negative.
func (s *Session) Remaining() int {
	return s.remaining
}

func (s *Session) Done() bool {
	return s.remaining == 0
}

// Progress returns the elapsed fraction in [0,1].
func (s *Session) Progress() float64 {
	if s.Task.Duration <= 0 {
		return 1
	}
	return float64(s.Task.Duration-s.remaining) / float64(s.Task.Duration)
}

// Complete awards the point for a finished task. Leaving a session without
// calling Complete awards nothing.
func (s *Session) Complete(ctx context.Context, a Awarder, now time.Time) (models.KoraPoints, error) {
	if !s.Done() {
		return models.KoraPoints{}, ErrNotFinished
	}
	if s.awarded {
		return models.KoraPoints{}, ErrAlreadyAwarded
	}
	points, err := a.AwardCravingPoint(ctx, now)
	if err != nil {
		return models.KoraPoints{}, err
	}
	s.awarded = true
	return points, nil
}
