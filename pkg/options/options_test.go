package options

import (
	"strings"
	"testing"
)

func TestParseConf(t *testing.T) {
	conf := `
# comment
; another
verbose = 2
frame-ms=20
db = /tmp/tx.db
broker = mqtt://localhost:1883/tx
extended = true
gradient = reds
frame-ms = zero
nonsense
`
	c := Configuration{FrameMs: DefaultFrameMs}
	if err := ParseConf(strings.NewReader(conf), &c); err != nil {
		t.Fatal(err)
	}
	want := Configuration{Verbose: 2, FrameMs: 20, Db: "/tmp/tx.db", Broker: "mqtt://localhost:1883/tx",
		Extended: true, Gradient: "reds"}
	if c != want {
		t.Errorf("got %+v", c)
	}
}

func TestParseEnv(t *testing.T) {
	c := Configuration{FrameMs: 20, Topic: DefaultTopic}
	if err := ParseEnv(" -verbose=1  -topic=tx/out -extended", &c); err != nil {
		t.Fatal(err)
	}
	if c.Verbose != 1 || c.Topic != "tx/out" || !c.Extended || c.FrameMs != 20 {
		t.Errorf("got %+v", c)
	}
	if err := ParseEnv("-nosuch", &c); err == nil {
		t.Error("unknown flag accepted")
	}
}
