package otx

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stronnag/txlogic/pkg/types"
)

const LOGTIMEPARSE = "2006-01-02 15:04:05.000"
const TIMEDATE = "2006-01-02 15:04:05"

// Segment is a contiguous run of log lines; a gap longer than the split
// time starts a new segment.
type Segment struct {
	Logname string
	Date    string
	Index   int
	Start   int
	End     int
}

type hdrrec struct {
	i int
	u string
}

// OTXLOG replays an OpenTX / EdgeTX SD card log as a stream of Inputs.
// Telemetry columns are matched to the model's sensor list by name.
type OTXLOG struct {
	name    string
	hdrs    map[string]hdrrec
	sensors []types.TelemetrySensor
}

var ErrNoTime = errors.New("otx: log has no Date/Time columns")

func NewOTXReader(fn string, sensors []types.TelemetrySensor) *OTXLOG {
	return &OTXLOG{name: fn, sensors: sensors}
}

func (o *OTXLOG) read_headers(r []string) {
	o.hdrs = make(map[string]hdrrec)
	rx := regexp.MustCompile(`(\w+)\(([A-Za-z/@%]*)\)`)
	var k string
	var u string
	for i, s := range r {
		m := rx.FindAllStringSubmatch(s, -1)
		if len(m) > 0 {
			k = m[0][1]
			u = m[0][2]
		} else {
			k = s
			u = ""
		}
		o.hdrs[k] = hdrrec{i, u}
	}
}

func (o *OTXLOG) get_rec_value(r []string, key string) (string, string, bool) {
	var s string
	v, ok := o.hdrs[key]
	if ok {
		if v.i < len(r) {
			s = r[v.i]
		} else {
			ok = false
		}
	}
	return s, v.u, ok
}

func (o *OTXLOG) rec_time(r []string) (time.Time, bool) {
	s, _, ok := o.get_rec_value(r, "Date")
	if !ok {
		return time.Time{}, false
	}
	s1, _, ok := o.get_rec_value(r, "Time")
	if !ok {
		return time.Time{}, false
	}
	var sb strings.Builder
	sb.WriteString(s)
	sb.WriteByte(' ')
	sb.WriteString(s1)
	t, err := time.Parse(LOGTIMEPARSE, sb.String())
	return t, err == nil
}

// Headers lists the log columns (with units) in file order.
func (o *OTXLOG) Headers() []string {
	type col struct {
		i int
		s string
	}
	var cols []col
	for k, v := range o.hdrs {
		s := k
		if v.u != "" {
			s = fmt.Sprintf("%s(%s)", k, v.u)
		}
		cols = append(cols, col{v.i, s})
	}
	sort.Slice(cols, func(a, b int) bool { return cols[a].i < cols[b].i })
	hs := make([]string, len(cols))
	for j, c := range cols {
		hs[j] = c.s
	}
	return hs
}

// Segments scans the log, splitting it wherever consecutive lines are more
// than split apart. A zero split yields a single segment.
func (o *OTXLOG) Segments(split time.Duration) ([]Segment, error) {
	fh, err := os.Open(o.name)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return o.segments(fh, split)
}

func (o *OTXLOG) segments(rd io.Reader, split time.Duration) ([]Segment, error) {
	var segs []Segment
	basefile := filepath.Base(o.name)
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var lasttm time.Time
	for i := 1; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			if len(segs) > 0 {
				segs[len(segs)-1].End = i - 1
			}
			break
		}
		if err != nil {
			return segs, fmt.Errorf("otx line %d: %w", i, err)
		}
		if i == 1 {
			o.read_headers(record)
			if _, ok := o.hdrs["Time"]; !ok {
				return nil, ErrNoTime
			}
			continue
		}
		t, ok := o.rec_time(record)
		if !ok {
			continue
		}
		if len(segs) == 0 || (split > 0 && t.Sub(lasttm) > split) {
			if len(segs) > 0 {
				segs[len(segs)-1].End = i - 1
			}
			segs = append(segs, Segment{Logname: basefile, Date: t.Format(TIMEDATE), Index: len(segs) + 1, Start: i})
		}
		lasttm = t
	}
	return segs, nil
}

// switch columns log -1 / 0 / 1 for up / mid / down.
func switch_pos(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	switch {
	case v < 0:
		return types.SW_UP, true
	case v > 0:
		return types.SW_DOWN, true
	}
	return types.SW_MID, true
}

// sensor values are scaled by the sensor precision, so "12.34" with
// prec 2 is 1234.
func sensor_value(s string, prec int) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	for ; prec > 0; prec-- {
		f *= 10
	}
	if f < 0 {
		return int(f - 0.5), true
	}
	return int(f + 0.5), true
}

// fill updates in from one log line. Absent or unparsable analog and switch
// columns keep their previous value; telemetry is marked invalid instead.
func (o *OTXLOG) fill(r []string, in *types.Inputs) {
	for j, k := range types.AnalogNames {
		if s, _, ok := o.get_rec_value(r, k); ok {
			if v, err := strconv.Atoi(s); err == nil {
				in.Analogs[j] = types.Limit(-types.RESX, v, types.RESX)
			}
		}
	}
	for j, k := range types.SwitchNames {
		if s, _, ok := o.get_rec_value(r, k); ok {
			if v, ok := switch_pos(s); ok {
				in.Switches[j] = v
			}
		}
	}
	for j, ts := range o.sensors {
		if j >= types.MAX_SENSORS {
			break
		}
		in.TelemetryValid[j] = false
		if s, _, ok := o.get_rec_value(r, ts.Name); ok && s != "" {
			if v, ok := sensor_value(s, ts.Prec); ok {
				in.Telemetry[j] = v
				in.TelemetryValid[j] = true
			}
		}
	}
}

// Reader replays the lines of seg, calling fn with the inputs of each line
// and the ms elapsed since the previous one (0 for the first). Returning
// false from fn stops the replay.
func (o *OTXLOG) Reader(seg Segment, fn func(in *types.Inputs, dt int) bool) error {
	fh, err := os.Open(o.name)
	if err != nil {
		return err
	}
	defer fh.Close()
	return o.replay(fh, seg, fn)
}

func (o *OTXLOG) replay(rd io.Reader, seg Segment, fn func(in *types.Inputs, dt int) bool) error {
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	var in types.Inputs
	in.Reset()
	var lt time.Time
	for i := 1; ; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("otx line %d: %w", i, err)
		}
		if i == 1 {
			if o.hdrs == nil {
				o.read_headers(record)
			}
			continue
		}
		if i < seg.Start || (seg.End > 0 && i > seg.End) {
			continue
		}
		t, ok := o.rec_time(record)
		if !ok {
			continue
		}
		dt := 0
		if !lt.IsZero() {
			dt = int(t.Sub(lt).Milliseconds())
			if dt < 0 {
				dt = 0
			}
		}
		lt = t
		o.fill(record, &in)
		if !fn(&in, dt) {
			break
		}
	}
	return nil
}
