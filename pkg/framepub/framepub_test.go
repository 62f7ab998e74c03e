package framepub

import (
	"bytes"
	"testing"

	"github.com/stronnag/txlogic/pkg/engine"
	"github.com/stronnag/txlogic/pkg/timers"
)

func TestParseBroker(t *testing.T) {
	tests := []struct {
		uri    string
		scheme string
		host   string
		port   int
		topic  string
	}{
		{"mqtt://broker.example.org", "tcp", "broker.example.org", 1883, "def/topic"},
		{"mqtt://u:p@localhost:1884/tx/one", "tcp", "localhost", 1884, "tx/one"},
		{"mqtts://broker.example.org/x", "ssl", "broker.example.org", 8883, "x"},
		{"ws://broker.example.org", "ws", "broker.example.org", 8083, "def/topic"},
		{"wss://broker.example.org:443/", "wss", "broker.example.org", 443, "def/topic"},
	}
	for _, tc := range tests {
		b, err := parseBroker(tc.uri, "def/topic")
		if err != nil {
			t.Errorf("%s: %v", tc.uri, err)
			continue
		}
		if b.scheme != tc.scheme || b.host != tc.host || b.port != tc.port || b.topic != tc.topic {
			t.Errorf("%s: got %+v", tc.uri, b)
		}
	}

	b, _ := parseBroker("mqtt://u:p@localhost:1884/tx/one", "")
	if b.user != "u" || b.passwd != "p" {
		t.Errorf("credentials %+v", b)
	}
	if b.url() != "tcp://localhost:1884" {
		t.Errorf("url %s", b.url())
	}
	b, _ = parseBroker("wss://h", "")
	if b.url() != "wss://h:8084/mqtt" {
		t.Errorf("url %s", b.url())
	}
	if _, err := parseBroker("mqtt:///topic", ""); err == nil {
		t.Error("missing host accepted")
	}
}

func TestFrameMsg(t *testing.T) {
	f := &engine.Frame{
		FlightMode: 2,
		Channels:   []int{512, -1024, 0},
		Logical:    []bool{true, false, false, false, true},
		Timers:     []int{90, -3},
	}
	p, err := New("", &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	want := "fm:2,ch:512;-1024;0,ls:11,tmr:90;-3"
	if got := make_frame_msg(&p.sb, f); got != want {
		t.Errorf("got %q want %q", got, want)
	}
	f.Warning = 2
	f.Events = []timers.Event{{Timer: 1, Kind: timers.EVT_EXPIRED}}
	want += ",wrn:2,evt:Tmr2 Expired 0"
	if got := make_frame_msg(&p.sb, f); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestPublishWriter(t *testing.T) {
	var buf bytes.Buffer
	p, err := New("", &buf)
	if err != nil {
		t.Fatal(err)
	}
	f := &engine.Frame{Channels: []int{1}}
	if err := p.Publish(1234, f); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1234|fm:0,ch:1,ls:0,tmr:\n" || p.Sent != 1 {
		t.Errorf("got %q", buf.String())
	}
	if _, err := New("", nil); err == nil {
		t.Error("publisher with no outputs")
	}
}
