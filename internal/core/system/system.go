package system

import "time"

// Phase defines execution ordering within a single tick. Everything runs
// on the game loop goroutine; phases only fix the order, they add no
// concurrency.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain session packet queues
	PhaseUpdate                  // 1: game logic, timers, AI steps
	PhasePostUpdate              // 2: respawns, visibility diffing
	PhasePersist                 // 3: batch position saves
	PhaseCleanup                 // 4: flush the deferred despawn queue
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
