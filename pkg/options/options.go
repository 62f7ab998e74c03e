package options

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stronnag/txlogic/pkg/types"
)

type Configuration struct {
	Verbose  int
	FrameMs  int
	Db       string
	Broker   string
	Topic    string
	Extended bool
	Gradient string
	Module   int
}

const (
	DefaultFrameMs = 10
	DefaultTopic   = "txlogic/frame"
	ConfName       = "txlogic.conf"
	EnvName        = "TXLOGIC_OPTS"
)

var Config = Configuration{
	FrameMs:  DefaultFrameMs,
	Topic:    DefaultTopic,
	Gradient: "rdylgn",
}

// Logf logs when the verbosity is greater than level.
func Logf(level int, ofmt string, params ...interface{}) {
	if Config.Verbose > level {
		log.Printf(ofmt, params...)
	}
}

func setKey(c *Configuration, key, val string) bool {
	switch key {
	case "verbose":
		if n, err := strconv.Atoi(val); err == nil {
			c.Verbose = n
		} else {
			return false
		}
	case "frame-ms":
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.FrameMs = n
		} else {
			return false
		}
	case "module":
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			c.Module = n
		} else {
			return false
		}
	case "db":
		c.Db = os.ExpandEnv(val)
	case "broker":
		c.Broker = val
	case "topic":
		c.Topic = val
	case "extended":
		if b, err := strconv.ParseBool(val); err == nil {
			c.Extended = b
		} else {
			return false
		}
	case "gradient":
		c.Gradient = val
	default:
		return false
	}
	return true
}

// ParseConf reads "key = value" lines; blank lines and lines starting with
// '#' or ';' are ignored. Unknown keys are logged and skipped.
func ParseConf(r io.Reader, c *Configuration) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		l := strings.TrimSpace(scanner.Text())
		if len(l) == 0 || strings.HasPrefix(l, "#") || strings.HasPrefix(l, ";") {
			continue
		}
		parts := strings.SplitN(l, "=", 2)
		if len(parts) != 2 {
			log.Printf("config: ignoring '%s'\n", l)
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if !setKey(c, key, val) {
			log.Printf("config: bad setting %s = %s\n", key, val)
		}
	}
	return scanner.Err()
}

func ConfigFile() string {
	return filepath.Join(types.GetConfigDir(), ConfName)
}

func readCfg(c *Configuration) {
	fn := ConfigFile()
	r, err := os.Open(fn)
	if err != nil {
		return
	}
	defer r.Close()
	if err = ParseConf(r, c); err != nil {
		log.Printf("%s : %v\n", fn, err)
	}
}

// ParseEnv applies settings given as flags in the environment string.
func ParseEnv(defs string, c *Configuration) error {
	var parts []string
	for _, p := range strings.Split(defs, " ") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	envflags := flag.NewFlagSet("$"+EnvName, flag.ContinueOnError)
	envflags.IntVar(&c.Verbose, "verbose", c.Verbose, "verbosity")
	envflags.IntVar(&c.FrameMs, "frame-ms", c.FrameMs, "frame period (ms)")
	envflags.IntVar(&c.Module, "module", c.Module, "failsafe module")
	envflags.StringVar(&c.Db, "db", c.Db, "database")
	envflags.StringVar(&c.Broker, "broker", c.Broker, "mqtt broker")
	envflags.StringVar(&c.Topic, "topic", c.Topic, "mqtt topic")
	envflags.BoolVar(&c.Extended, "extended", c.Extended, "extended limits display")
	envflags.StringVar(&c.Gradient, "gradient", c.Gradient, "colour gradient")
	return envflags.Parse(parts)
}

// Load applies the configuration file and then the environment to Config.
// Command line flags are bound afterwards, so they take precedence.
func Load() {
	readCfg(&Config)
	if defs := os.Getenv(EnvName); defs != "" {
		if err := ParseEnv(defs, &Config); err != nil {
			log.Printf("%s: %v\n", EnvName, err)
		}
	}
	if Config.FrameMs <= 0 {
		Config.FrameMs = DefaultFrameMs
	}
}
