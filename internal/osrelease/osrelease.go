// Package osrelease reads the Linux distribution from os-release(5).
package osrelease

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Paths are tried in order.
var Paths = []string{"/etc/os-release", "/usr/lib/os-release"}

// Info is the subset of os-release funcwiz reports.
type Info struct {
	ID         string   `json:"id" yaml:"id"`
	VersionID  string   `json:"version_id,omitempty" yaml:"version_id,omitempty"`
	Name       string   `json:"name" yaml:"name"`
	PrettyName string   `json:"pretty_name,omitempty" yaml:"pretty_name,omitempty"`
	IDLike     []string `json:"id_like,omitempty" yaml:"id_like,omitempty"`
}

// String returns PRETTY_NAME, falling back to NAME and VERSION_ID.
func (i Info) String() string {
	if i.PrettyName != "" {
		return i.PrettyName
	}
	return strings.TrimSpace(i.Name + " " + i.VersionID)
}

// Like reports whether the distribution is id or derives from it.
func (i Info) Like(id string) bool {
	if i.ID == id {
		return true
	}
	for _, l := range i.IDLike {
		if l == id {
			return true
		}
	}
	return false
}

// Parse reads KEY=VALUE lines. Missing NAME and ID default to "Linux"
// and "linux".
func Parse(r io.Reader) (Info, error) {
	env, err := godotenv.Parse(r)
	if err != nil {
		return Info{}, fmt.Errorf("parse os-release: %w", err)
	}

	info := Info{
		ID:         env["ID"],
		VersionID:  env["VERSION_ID"],
		Name:       env["NAME"],
		PrettyName: env["PRETTY_NAME"],
		IDLike:     strings.Fields(env["ID_LIKE"]),
	}
	if info.ID == "" {
		info.ID = "linux"
	}
	if info.Name == "" {
		info.Name = "Linux"
	}
	return info, nil
}

// Read parses the first os-release file found in Paths.
func Read() (Info, error) {
	for _, p := range Paths {
		f, err := os.Open(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Info{}, err
		}
		info, err := Parse(f)
		f.Close()
		return info, err
	}
	return Info{}, fmt.Errorf("os-release: %w", fs.ErrNotExist)
}
