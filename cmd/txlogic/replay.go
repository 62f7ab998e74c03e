package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mattn/go-tty"
	"github.com/spf13/cobra"

	"github.com/stronnag/txlogic/pkg/engine"
	"github.com/stronnag/txlogic/pkg/framepub"
	"github.com/stronnag/txlogic/pkg/options"
	"github.com/stronnag/txlogic/pkg/otx"
	"github.com/stronnag/txlogic/pkg/store"
	"github.com/stronnag/txlogic/pkg/types"
)

type replayer struct {
	eng   *engine.Engine
	db    *store.DB
	pub   *framepub.Publisher
	lat   *engine.Latency
	tty   *tty.TTY
	step  bool
	quit  atomic.Bool
	stamp int64
}

// wait blocks in step mode until a key is pressed: 'c' continues freely,
// 'q' stops the replay, anything else advances one frame.
func (r *replayer) wait() {
	if !r.step || r.tty == nil {
		return
	}
	c, err := r.tty.ReadRune()
	if err != nil {
		log.Printf("tty: %v\n", err)
		r.step = false
		return
	}
	switch c {
	case 'q', 'Q':
		r.quit.Store(true)
	case 'c', 'C':
		r.step = false
	}
}

func (r *replayer) frame(in *types.Inputs, dt int) bool {
	t0 := time.Now()
	f := r.eng.Step(in, dt)
	r.lat.Observe(time.Since(t0))
	r.stamp += int64(dt)

	if r.db != nil {
		if err := r.db.WriteFrame(r.stamp, f); err != nil {
			log.Printf("store: %v\n", err)
			return false
		}
	}
	if r.pub != nil {
		if err := r.pub.Publish(r.stamp, f); err != nil {
			log.Printf("publish: %v\n", err)
		}
	}
	for _, e := range f.Events {
		options.Logf(0, "%8d %s\n", r.stamp, e)
	}
	r.wait()
	return !r.quit.Load()
}

func (r *replayer) summary() {
	d := r.eng.Diagnostics()
	fmt.Printf("%-10.10s: %d\n", "Frames", d.Frames)
	if r.lat.Count() > 0 {
		fmt.Printf("%-10.10s: p50 %v p95 %v p99 %v max %v\n", "Step", r.lat.Query(0.50),
			r.lat.Query(0.95), r.lat.Query(0.99), r.lat.Max())
	}
	if d.Resolution+d.Degraded+d.DroppedEvents > 0 {
		fmt.Printf("%-10.10s: resolution %d degraded %d dropped events %d\n", "Fallbacks",
			d.Resolution, d.Degraded, d.DroppedEvents)
	}
	if r.pub != nil && r.pub.Sent > 0 {
		fmt.Printf("%-10.10s: %d\n", "Published", r.pub.Sent)
	}
}

func replayCmd() *cobra.Command {
	var split int
	var printFrames bool
	var step bool
	var record bool
	cmd := &cobra.Command{
		Use:   "replay MODEL LOG.csv",
		Short: "Run a model over the stick and switch inputs of an OpenTX log",
		Long: `Each log line is one frame, evaluated with the log's own time base.
Frames may be printed, recorded to the database (--record) and published to
an MQTT broker (--broker mqtt://[user:pass@]host[:port]/topic).
Persistent timers are restored from and saved to the database.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDb()
			if err != nil {
				return err
			}
			defer db.Close()
			eng, err := loadEngine(args[0], db)
			if err != nil {
				return err
			}
			m := eng.Model()

			r := &replayer{eng: eng, lat: engine.NewLatency(), step: step}
			if record {
				r.db = db
			}
			if options.Config.Broker != "" || printFrames {
				var w io.Writer
				if printFrames {
					w = os.Stdout
				}
				if r.pub, err = framepub.New(options.Config.Broker, w); err != nil {
					return err
				}
				defer r.pub.Close()
			}
			if step {
				if r.tty, err = tty.Open(); err != nil {
					return err
				}
				defer r.tty.Close()
				fmt.Fprintln(os.Stderr, "any key: next frame, c: continue, q: quit")
			}

			cc := make(chan os.Signal, 1)
			signal.Notify(cc, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-cc
				r.quit.Store(true)
			}()

			o := otx.NewOTXReader(args[1], m.Sensors)
			segs, err := o.Segments(time.Duration(split) * time.Second)
			if err != nil {
				return err
			}
			for j, seg := range segs {
				if r.quit.Load() {
					break
				}
				options.Logf(0, "%s segment %d: %s lines %d-%d\n", seg.Logname, seg.Index, seg.Date, seg.Start, seg.End)
				if j > 0 {
					eng.ResetFlight()
				}
				if record {
					if _, err = db.BeginRun(m.Name, seg.Logname); err != nil {
						return err
					}
				}
				r.stamp = 0
				err = o.Reader(seg, r.frame)
				if record {
					if cerr := db.EndRun(); err == nil {
						err = cerr
					}
				}
				if err != nil {
					return err
				}
			}
			r.summary()
			return db.SaveTimers(m.Name, eng.PersistedTimers())
		},
	}
	cmd.Flags().StringVar(&options.Config.Broker, "broker", options.Config.Broker, "MQTT broker URI")
	cmd.Flags().IntVar(&split, "split", 30, "start a new flight after a gap of this many seconds (0: never)")
	cmd.Flags().BoolVar(&printFrames, "print", false, "print frames to stdout")
	cmd.Flags().BoolVar(&step, "step", false, "single step frames from the keyboard")
	cmd.Flags().BoolVar(&record, "record", false, "record frames to the database")
	cmd.Flags().BoolVar(&options.Config.Extended, "extended", options.Config.Extended, "force extended limits")
	return cmd
}
