package types

import (
	"bufio"
	"bytes"
	"os"
	"strings"
)

const (
	IS_UNKNOWN = -1
	IS_MODEL   = 1
	IS_OTX     = 2
	IS_SQL     = 3
)

// EvinceFileType sniffs the first bytes of fn: a JSON model, an OpenTX
// CSV log or a txlogic SQLite store.
func EvinceFileType(fn string) (int, error) {
	res := IS_UNKNOWN
	file, err := os.Open(fn)
	if err != nil {
		return res, err
	}
	defer file.Close()
	fh := bufio.NewReader(file)
	sig, _ := fh.Peek(128)
	trimmed := bytes.TrimLeft(sig, " \t\r\n")
	switch {
	case strings.HasPrefix(string(sig), "Date,Time,"):
		res = IS_OTX
	case strings.HasPrefix(string(sig), "SQLite format 3"):
		res = IS_SQL
	case bytes.HasPrefix(trimmed, []byte{'{'}):
		res = IS_MODEL
	}
	return res, nil
}
