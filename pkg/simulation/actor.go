package simulation

import (
	"sync/atomic"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-space-flock/pkg/particles"
)

// WorldActor hosts a World behind a goakt mailbox, so ticks are processed one
// at a time whatever goroutine sends them.
//
// Messages:
//   - *durationpb.Duration: step the world by that much and push a snapshot
//   - *structpb.Struct: retune the flock (see TuningMessage); keys left out keep their value
//   - *emptypb.Empty: answered with the step count as *wrapperspb.UInt64Value
type WorldActor struct {
	world      *World
	snapshotCh chan<- *WorldSnapshot
	view       atomic.Pointer[particles.View]

	// --- Benchmark Stats ---
	stepCount   int
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor wraps world. Snapshots go to snapshotCh, which may be nil.
func NewWorldActor(world *World, snapshotCh chan<- *WorldSnapshot) *WorldActor {
	return &WorldActor{
		world:       world,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

// SetView hands the camera to the world before its next step.
// Safe to call from any goroutine.
func (w *WorldActor) SetView(v particles.View) {
	w.view.Store(&v)
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is ready with %d agents", len(w.world.Agents()))
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")

	case *durationpb.Duration:
		if v := w.view.Swap(nil); v != nil {
			w.world.SetView(*v)
		}
		w.world.Step(msg.AsDuration().Seconds())
		w.stepCount++
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	case *structpb.Struct:
		t, err := decodeTuning(w.world.Tuning(), msg)
		if err == nil {
			err = w.world.Tune(t)
		}
		if err != nil {
			ctx.Logger().Warnf("Tuning rejected: %v", err)
		}

	case *emptypb.Empty:
		ctx.Response(wrapperspb.UInt64(w.world.Steps()))

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Debugf("📊 STEPS: %d/sec | Agents: %d | Ribbons: %d | Points: %d",
			w.stepCount, len(w.world.Agents()), w.world.Projectiles().Len(), w.world.Explosions().Len())
		w.stepCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
