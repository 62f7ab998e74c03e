package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stronnag/txlogic/pkg/engine"
	"github.com/stronnag/txlogic/pkg/modelcfg"
	"github.com/stronnag/txlogic/pkg/options"
	"github.com/stronnag/txlogic/pkg/store"
	"github.com/stronnag/txlogic/pkg/types"
)

var GitCommit = "local"
var GitTag = "0.0.0"

func GetVersion() string {
	return fmt.Sprintf("%s %s commit:%s", filepath.Base(os.Args[0]), GitTag, GitCommit)
}

func main() {
	log.SetPrefix("[txlogic] ")
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	options.Load()

	rootCmd := &cobra.Command{
		Use:   "txlogic",
		Short: "Radio transmitter model logic: mixer, logical switches, timers and failsafe",
		Long: `txlogic evaluates a transmitter model (JSON) the way the radio does,
once per frame: flight mode selection, logical switches, inputs and mixes,
output limits, timers and failsafe.

Models may be JSON files or names stored in the database.
Settings are read from ` + options.ConfigFile() + ` and $` + options.EnvName + `.`,
		Version:       GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&options.Config.Db, "db", options.Config.Db, "SQLite database for models, timers and recorded runs (default: cache directory)")
	pf.IntVarP(&options.Config.Verbose, "verbose", "v", options.Config.Verbose, "verbosity")

	rootCmd.AddCommand(checkCmd(), storeCmd(), exportCmd(), replayCmd(), monitorCmd(), fitCurveCmd(), timersCmd(), runsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "txlogic: %v\n", err)
		os.Exit(1)
	}
}

// openDb opens --db, or txlogic.db in the cache directory.
func openDb() (*store.DB, error) {
	fn := options.Config.Db
	if fn == "" {
		dir := types.GetCacheDir()
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		fn = filepath.Join(dir, "txlogic.db")
	}
	db, err := store.Open(fn)
	if err != nil {
		return nil, err
	}
	options.Logf(0, "database %s\n", modelcfg.Resolve(fn))
	return db, nil
}

// loadModel reads a JSON model file, or a named model from db.
func loadModel(arg string, db *store.DB) (*types.ModelData, error) {
	ft, err := types.EvinceFileType(arg)
	if err == nil {
		switch ft {
		case types.IS_MODEL:
			return modelcfg.Read(arg)
		case types.IS_OTX, types.IS_SQL:
			return nil, fmt.Errorf("%s: not a model file", arg)
		}
		return nil, fmt.Errorf("%s: unknown file format", arg)
	}
	if db == nil {
		return nil, err
	}
	return db.LoadModel(arg)
}

// loadEngine loads the model and builds an engine, restoring persistent
// timers from db.
func loadEngine(arg string, db *store.DB) (*engine.Engine, error) {
	m, err := loadModel(arg, db)
	if err != nil {
		return nil, err
	}
	if options.Config.Extended {
		m.ExtendedLimits = true
	}
	eng, err := engine.Load(m)
	if err != nil {
		return nil, err
	}
	for _, w := range eng.Warns {
		log.Printf("warning: %s\n", w)
	}
	if db != nil {
		saved, err := db.LoadTimers(m.Name)
		if err != nil {
			return nil, err
		}
		eng.PowerOn(saved)
	}
	return eng, nil
}
