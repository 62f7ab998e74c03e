package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stronnag/txlogic/pkg/curves"
	"github.com/stronnag/txlogic/pkg/engine"
	"github.com/stronnag/txlogic/pkg/failsafe"
	"github.com/stronnag/txlogic/pkg/logical"
	"github.com/stronnag/txlogic/pkg/modelcfg"
	"github.com/stronnag/txlogic/pkg/monitor"
	"github.com/stronnag/txlogic/pkg/options"
	"github.com/stronnag/txlogic/pkg/otx"
	"github.com/stronnag/txlogic/pkg/store"
	"github.com/stronnag/txlogic/pkg/types"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check MODEL",
		Short: "Validate a model and show its failsafe settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDb()
			if err != nil {
				return err
			}
			defer db.Close()
			m, err := loadModel(args[0], db)
			if err != nil {
				return err
			}
			errs, warns := engine.Validate(m)
			for _, e := range errs {
				fmt.Printf("error   : %s\n", e)
			}
			for _, w := range warns {
				fmt.Printf("warning : %s\n", w)
			}
			if c := logical.Cycles(m.LogicalSwitches); len(c) > 0 {
				fmt.Printf("%-8.8s: ", "cycles")
				for _, j := range c {
					fmt.Printf("L%d ", j+1)
				}
				fmt.Println()
			}
			if err := errs.Err(); err != nil {
				return fmt.Errorf("%s: %d errors", args[0], len(errs))
			}
			fs := failsafe.New(m)
			for j := range m.Modules {
				res, ok := fs.Compute(j)
				if !ok {
					continue
				}
				fmt.Printf("module %d: %s", j+1, res.Mode)
				for k, ch := range res.Channels {
					fmt.Printf(" CH%d=%s", res.Start+k+1, ch)
				}
				fmt.Println()
			}
			fmt.Printf("%s: ok\n", modelcfg.Resolve(args[0]))
			return nil
		},
	}
}

func storeCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "store MODEL.json",
		Short: "Validate a model file and save it in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDb()
			if err != nil {
				return err
			}
			defer db.Close()
			m, err := modelcfg.Read(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				m.Name = name
			}
			if errs, _ := engine.Validate(m); errs.Err() != nil {
				return errs.Err()
			}
			return db.SaveModel(m.Name, m)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store under this name (default: model name)")
	return cmd
}

// exportModel writes a stored model to fn, by default NAME.json.
func exportModel(db *store.DB, name, fn string) (string, error) {
	m, err := db.LoadModel(name)
	if err != nil {
		return "", err
	}
	if fn == "" {
		fn = name + ".json"
	}
	if err := modelcfg.Write(fn, m); err != nil {
		return "", err
	}
	return modelcfg.Resolve(fn), nil
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME [OUT.json]",
		Short: "Write a stored model back to a JSON file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDb()
			if err != nil {
				return err
			}
			defer db.Close()
			out := ""
			if len(args) > 1 {
				out = args[1]
			}
			fn, err := exportModel(db, args[0], out)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", args[0], fn)
			return nil
		},
	}
}

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor MODEL [LOG.csv]",
		Short: "Interactive view of channels, logical switches and timers",
		Long: `Without a log, sticks and switches are driven from the keyboard.
With an OpenTX CSV log the inputs are replayed from the log.`,
		Args: cobra.RangeArgs(1, 2),
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
			var src monitor.Source
			if len(args) > 1 {
				rec := &monitor.Recording{}
				o := otx.NewOTXReader(args[1], eng.Model().Sensors)
				err = o.Reader(otx.Segment{Start: 2}, func(in *types.Inputs, dt int) bool {
					rec.Add(in, dt)
					return true
				})
				if err != nil {
					return err
				}
				src = rec
			}
			period := time.Duration(options.Config.FrameMs) * time.Millisecond
			if err := monitor.New(eng, src, period, options.Config.Gradient).Run(); err != nil {
				return err
			}
			return db.SaveTimers(eng.Model().Name, eng.PersistedTimers())
		},
	}
	cmd.Flags().IntVar(&options.Config.FrameMs, "frame-ms", options.Config.FrameMs, "frame period (ms)")
	cmd.Flags().StringVar(&options.Config.Gradient, "gradient", options.Config.Gradient, "bar colours: rdylgn, ylorrd, reds")
	cmd.Flags().BoolVar(&options.Config.Extended, "extended", options.Config.Extended, "force extended limits")
	return cmd
}

func readSamples(fn string) ([]float64, []float64, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()
	r := csv.NewReader(fh)
	r.TrimLeadingSpace = true
	r.Comment = '#'
	var xs, ys []float64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(rec) < 2 {
			continue
		}
		x, err1 := strconv.ParseFloat(rec[0], 64)
		y, err2 := strconv.ParseFloat(rec[1], 64)
		if err1 != nil || err2 != nil {
			// header line
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

func fitCurveCmd() *cobra.Command {
	var epsilon float64
	var name string
	cmd := &cobra.Command{
		Use:   "fit-curve SAMPLES.csv",
		Short: "Fit a custom curve to x,y samples (percent) and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xs, ys, err := readSamples(args[0])
			if err != nil {
				return err
			}
			c, err := curves.Fit(xs, ys, epsilon)
			if err != nil {
				return err
			}
			c.Name = name
			var errs types.ConfigErrors
			curves.Validate(&c, "fit", &errs)
			if err := errs.Err(); err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		},
	}
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0.5, "initial simplification tolerance (percent)")
	cmd.Flags().StringVar(&name, "name", "", "curve name")
	return cmd
}

func timersCmd() *cobra.Command {
	var model string
	var reset int
	cmd := &cobra.Command{
		Use:   "timers",
		Short: "List or reset persisted timer values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDb()
			if err != nil {
				return err
			}
			defer db.Close()
			if reset > 0 {
				if model == "" {
					return errors.New("--reset needs --model")
				}
				if err := db.ResetTimer(model, reset-1); err != nil {
					return err
				}
			}
			rows, err := db.Timers(model)
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Printf("%-16.16s Tmr%d %8s\n", r.Model, r.Idx+1, monitor.FormatTimer(r.Value))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "model name")
	cmd.Flags().IntVar(&reset, "reset", 0, "reset timer N (1-based)")
	return cmd
}

func runsCmd() *cobra.Command {
	var show int64
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored models and recorded replays, or show the frames of one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDb()
			if err != nil {
				return err
			}
			defer db.Close()
			if show > 0 {
				rows, err := db.Frames(show)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Printf("%8d FM%d %v %x %s\n", r.Stamp, r.Fm, r.Values(), r.Logical, r.Events)
				}
				return nil
			}
			names, err := db.ModelNames()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Printf("%-8.8s : %s\n", "Model", n)
			}
			runs, err := db.Runs()
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%-8.8s : %4d %-16.16s %s %s\n", "Run", r.Id, r.Model, r.Dtg, r.Logname)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&show, "show", 0, "print the frames of this run")
	return cmd
}
