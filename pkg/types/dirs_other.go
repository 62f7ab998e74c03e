//go:build !windows
// +build !windows

package types

import (
	"os"
	"path/filepath"
)

func GetConfigDir() string {
	def := os.Getenv("HOME")
	if def != "" {
		def = filepath.Join(def, ".config")
	} else {
		def = "./"
	}
	return def
}

func GetCacheDir() string {
	def := os.Getenv("HOME")
	if def == "" {
		def = "./"
	}
	return filepath.Join(def, ".cache", "txlogic")
}
