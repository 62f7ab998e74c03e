package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/stronnag/txlogic/pkg/engine"
	"github.com/stronnag/txlogic/pkg/types"
)

const SCHEMA = `CREATE TABLE IF NOT EXISTS models (name text NOT NULL PRIMARY KEY, body text, stamp text);
CREATE TABLE IF NOT EXISTS timers (model text NOT NULL, idx integer NOT NULL, value integer, PRIMARY KEY (model, idx));
CREATE TABLE IF NOT EXISTS runs (id integer NOT NULL PRIMARY KEY, model text, logname text, dtg text);
CREATE TABLE IF NOT EXISTS frames (run integer, idx integer, stamp integer, fm integer, channels text, logical integer, events text)`

const (
	IMODEL = `insert or replace into models (name, body, stamp) values ($1,$2,$3)`
	ITIMER = `insert or replace into timers (model, idx, value) values ($1,$2,$3)`
	IRUN   = `insert into runs (model, logname, dtg) values ($1,$2,$3)`
	IFRAME = `insert into frames (run, idx, stamp, fm, channels, logical, events) values ($1,$2,$3,$4,$5,$6,$7)`
)

var ErrNoModel = errors.New("store: no such model")
var ErrRunOpen = errors.New("store: run already open")

type TimerRow struct {
	Model string `db:"model"`
	Idx   int    `db:"idx"`
	Value int    `db:"value"`
}

type RunRow struct {
	Id      int64  `db:"id"`
	Model   string `db:"model"`
	Logname string `db:"logname"`
	Dtg     string `db:"dtg"`
}

type FrameRow struct {
	Run      int64  `db:"run"`
	Idx      int    `db:"idx"`
	Stamp    int64  `db:"stamp"`
	Fm       int    `db:"fm"`
	Channels string `db:"channels"`
	Logical  int64  `db:"logical"`
	Events   string `db:"events"`
}

// Values decodes the stored channel list.
func (f FrameRow) Values() []int {
	var vals []int
	for _, s := range strings.Split(f.Channels, ",") {
		if n, err := strconv.Atoi(s); err == nil {
			vals = append(vals, n)
		}
	}
	return vals
}

// Switch reports logical switch j of the stored bitmask.
func (f FrameRow) Switch(j int) bool {
	return j >= 0 && j < 64 && uint64(f.Logical)&(1<<uint(j)) != 0
}

type DB struct {
	db    *sqlx.DB
	tx    *sqlx.Tx
	run   int64
	count int
	stamp int64
	sb    strings.Builder
}

func Open(fn string) (*DB, error) {
	db, err := sqlx.Open("sqlite", fn)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if _, err = db.Exec(SCHEMA); err != nil {
		db.Close()
		return nil, fmt.Errorf("store schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d.tx != nil {
		d.tx.Rollback()
		d.tx = nil
	}
	return d.db.Close()
}

func (d *DB) SaveModel(name string, m *types.ModelData) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(IMODEL, name, string(body), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (d *DB) LoadModel(name string) (*types.ModelData, error) {
	var body string
	err := d.db.Get(&body, `SELECT body FROM models WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, err
	}
	m := &types.ModelData{}
	if err = json.Unmarshal([]byte(body), m); err != nil {
		return nil, fmt.Errorf("store model %s: %w", name, err)
	}
	return m, nil
}

func (d *DB) ModelNames() ([]string, error) {
	var names []string
	err := d.db.Select(&names, `SELECT name FROM models ORDER BY name`)
	return names, err
}

// SaveTimers stores the persistent timer values of a model.
func (d *DB) SaveTimers(model string, vals map[int]int) error {
	for idx, v := range vals {
		if _, err := d.db.Exec(ITIMER, model, idx, v); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) LoadTimers(model string) (map[int]int, error) {
	var rows []TimerRow
	if err := d.db.Select(&rows, `SELECT * FROM timers WHERE model = $1`, model); err != nil {
		return nil, err
	}
	vals := make(map[int]int, len(rows))
	for _, r := range rows {
		vals[r.Idx] = r.Value
	}
	return vals, nil
}

// Timers lists every saved timer, optionally for one model.
func (d *DB) Timers(model string) ([]TimerRow, error) {
	var rows []TimerRow
	var err error
	if model == "" {
		err = d.db.Select(&rows, `SELECT * FROM timers ORDER BY model, idx`)
	} else {
		err = d.db.Select(&rows, `SELECT * FROM timers WHERE model = $1 ORDER BY idx`, model)
	}
	return rows, err
}

// ResetTimer drops a saved value, so the timer powers on at its start value.
func (d *DB) ResetTimer(model string, idx int) error {
	_, err := d.db.Exec(`DELETE FROM timers WHERE model = $1 AND idx = $2`, model, idx)
	return err
}

// BeginRun starts a recording; frames written afterwards belong to it and
// are committed by EndRun. Only one run may be open at a time.
func (d *DB) BeginRun(model, logname string) (int64, error) {
	if d.tx != nil {
		return 0, ErrRunOpen
	}
	res, err := d.db.Exec(IRUN, model, logname, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	if d.run, err = res.LastInsertId(); err != nil {
		return 0, err
	}
	d.count = 0
	d.stamp = 0
	d.tx, err = d.db.Beginx()
	return d.run, err
}

func (d *DB) EndRun() error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Commit()
	d.tx = nil
	return err
}

// WriteFrame records f at stamp ms; stamps are stored relative to the
// first frame of the run.
func (d *DB) WriteFrame(stamp int64, f *engine.Frame) error {
	if d.tx == nil {
		return errors.New("store: no run")
	}
	if d.count == 0 {
		d.stamp = stamp
	}
	d.sb.Reset()
	for j, v := range f.Channels {
		if j > 0 {
			d.sb.WriteByte(',')
		}
		d.sb.WriteString(strconv.Itoa(v))
	}
	chans := d.sb.String()
	var lsw uint64
	for j, v := range f.Logical {
		if v && j < 64 {
			lsw |= 1 << uint(j)
		}
	}
	d.sb.Reset()
	for j, e := range f.Events {
		if j > 0 {
			d.sb.WriteByte(';')
		}
		d.sb.WriteString(e.String())
	}
	_, err := d.tx.Exec(IFRAME, d.run, d.count, stamp-d.stamp, f.FlightMode, chans, int64(lsw), d.sb.String())
	d.count++
	return err
}

func (d *DB) Runs() ([]RunRow, error) {
	var rows []RunRow
	err := d.db.Select(&rows, `SELECT * FROM runs ORDER BY id`)
	return rows, err
}

func (d *DB) Frames(run int64) ([]FrameRow, error) {
	var rows []FrameRow
	err := d.db.Select(&rows, `SELECT * FROM frames WHERE run = $1 ORDER BY idx`, run)
	return rows, err
}
