package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stronnag/txlogic/pkg/modelcfg"
	"github.com/stronnag/txlogic/pkg/store"
	"github.com/stronnag/txlogic/pkg/types"
)

func TestReadSamples(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "s.csv")
	os.WriteFile(fn, []byte("x,y\n# expo\n-100,-100\n0, 0\n50,25\n100,100\n"), 0644)
	xs, ys, err := readSamples(fn)
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 4 || xs[2] != 50 || ys[2] != 25 {
		t.Errorf("got %v %v", xs, ys)
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "heli.json")
	os.WriteFile(fn, []byte(`{"channels": 6}`), 0644)
	m, err := loadModel(fn, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "heli" || m.Channels != 6 {
		t.Errorf("got %+v", m)
	}

	log := filepath.Join(dir, "log.csv")
	os.WriteFile(log, []byte("Date,Time,Rud\n"), 0644)
	if _, err := loadModel(log, nil); err == nil {
		t.Error("log accepted as a model")
	}
	if _, err := loadModel(filepath.Join(dir, "missing"), nil); err == nil {
		t.Error("missing file without a database")
	}
}

func TestExportModel(t *testing.T) {
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "t.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	m := &types.ModelData{Name: "glider", Channels: 4,
		Mixes: []types.MixData{{Dest: 0, Weight: 100,
			Source: types.RawSource{Kind: types.SOURCE_STICK, Index: types.STICK_AIL}}}}
	if err := db.SaveModel(m.Name, m); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")
	if _, err := exportModel(db, "glider", out); err != nil {
		t.Fatal(err)
	}
	got, err := modelcfg.Read(out)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "glider" || got.Channels != 4 || len(got.Mixes) != 1 || got.Mixes[0].Source != m.Mixes[0].Source {
		t.Errorf("got %+v", got)
	}
	if _, err := exportModel(db, "nonesuch", out); err == nil {
		t.Error("missing model exported")
	}
}
