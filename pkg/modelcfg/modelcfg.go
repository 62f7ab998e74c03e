package modelcfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yookoala/realpath"

	"github.com/stronnag/txlogic/pkg/types"
)

// Resolve returns the canonical path of fn, or fn itself if it cannot be
// resolved.
func Resolve(fn string) string {
	rp, err := realpath.Realpath(fn)
	if err != nil || rp == "" {
		return fn
	}
	return rp
}

// Read decodes a JSON model file. Unknown fields are rejected so typos in
// hand edited models are not silently ignored.
func Read(fn string) (*types.ModelData, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	return Decode(data, fn)
}

func Decode(data []byte, where string) (*types.ModelData, error) {
	m := &types.ModelData{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	if m.Name == "" {
		m.Name = Name(where)
	}
	return m, nil
}

// Write stores m as indented JSON, replacing fn atomically.
func Write(fn string, m *types.ModelData) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	tmp, err := os.CreateTemp(filepath.Dir(fn), ".model-*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fn)
}

// Name derives a model name from its file name.
func Name(fn string) string {
	b := filepath.Base(fn)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
