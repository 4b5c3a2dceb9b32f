// Demo: a patrolling guard driven at a fixed tick rate. The machine is
// loaded from a YAML definition, its hooks and guards bound through a
// registry, and its lifecycle logged with zap.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	automat "github.com/MeineLaterne/zustands-automat"
)

const guardDefinition = `
id: guard
initial: patrol
states:
  - name: patrol
    transitions:
      - target: chase
        guard: playerNear
    children:
      - name: walk
        onStay: walk
        transitions:
          - target: turn
            guard: reachedEnd
      - name: turn
        onEnter: turnAround
        transitions:
          - target: walk
  - name: chase
    onEnter: shout
    onStay: run
    transitions:
      - target: patrol
        guard: playerLost
`

// guardWorld is the context shared by every hook and guard.
type guardWorld struct {
	position   int
	direction  int
	playerNear bool
	tick       int
}

func registry() *automat.Registry[*guardWorld] {
	return automat.NewRegistry[*guardWorld]().
		RegisterHook("walk", func(w *guardWorld) {
			w.position += w.direction
		}).
		RegisterHook("turnAround", func(w *guardWorld) {
			w.direction = -w.direction
		}).
		RegisterHook("shout", func(w *guardWorld) {
			fmt.Println("guard: hey, you there!")
		}).
		RegisterHook("run", func(w *guardWorld) {
			w.position += 2 * w.direction
		}).
		RegisterGuard("playerNear", func(w *guardWorld) bool {
			return w.playerNear
		}).
		RegisterGuard("playerLost", func(w *guardWorld) bool {
			return !w.playerNear
		}).
		RegisterGuard("reachedEnd", func(w *guardWorld) bool {
			return w.position <= -5 || w.position >= 5
		})
}

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	def, err := automat.ParseDefinition([]byte(guardDefinition))
	if err != nil {
		log.Fatal("parse definition", zap.Error(err))
	}

	machine, err := automat.BuildDefinition(def, registry(),
		automat.WithObserver[*guardWorld](automat.NewLogObserver(log)))
	if err != nil {
		log.Fatal("build machine", zap.Error(err))
	}

	w := &guardWorld{direction: 1}
	machine.Start(w)
	defer machine.Exit()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			w.tick++
			// The player wanders in and out of sight every few seconds.
			w.playerNear = w.tick%25 > 18
			machine.Tick()
			log.Info("tick",
				zap.String("state", machine.Current().Name()),
				zap.Int("position", w.position),
				zap.Bool("playerNear", w.playerNear))
		case <-sig:
			log.Info("shutting down")
			return
		}
	}
}
