//go:build windows
// +build windows

package types

import (
	"fmt"
	"os"
	"path/filepath"
)

func copydir(src string, dest string) error {
	files, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, f := range files {
		sfn := filepath.Join(src, f.Name())
		dfn := filepath.Join(dest, f.Name())
		if f.IsDir() {
			err = copydir(sfn, dfn)
		} else {
			var content []byte
			content, err = os.ReadFile(sfn)
			if err == nil {
				err = os.WriteFile(dfn, content, 0644)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func checkdirs(p string) string {
	def := os.Getenv("LOCALAPPDATA")
	nfp := filepath.Join(def, p)
	if _, err := os.Stat(nfp); os.IsNotExist(err) {
		ofp := filepath.Join(os.Getenv("APPDATA"), p)
		if _, err := os.Stat(ofp); err == nil {
			fmt.Fprintf(os.Stderr, "** Migrating %s %s\n", ofp, nfp)
			if copydir(ofp, nfp) == nil {
				os.RemoveAll(ofp)
			}
		} else {
			os.MkdirAll(nfp, 0755)
		}
	}
	return nfp
}

func GetConfigDir() string {
	return checkdirs("txlogic")
}

func GetCacheDir() string {
	checkdirs("txlogic")
	return checkdirs(filepath.Join("txlogic", ".cache"))
}
