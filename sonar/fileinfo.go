package sonar

import (
	"io/fs"
	"time"
)

func (is *Issue) Name() string      { return is.Key }
func (is *Issue) Size() int64       { return int64(len(printIssue(is))) }
func (is *Issue) Mode() fs.FileMode { return 0o444 }
func (is *Issue) IsDir() bool       { return is.Mode().IsDir() }
func (is *Issue) Sys() any          { return nil }

func (is *Issue) ModTime() time.Time {
	if is.Updated.IsZero() {
		return is.Created
	}
	return is.Updated
}

type stat struct {
	name  string
	size  int64
	mode  fs.FileMode
	mtime time.Time
}

func (s stat) Name() string       { return s.name }
func (s stat) Size() int64        { return s.size }
func (s stat) Mode() fs.FileMode  { return s.mode }
func (s stat) ModTime() time.Time { return s.mtime }
func (s stat) IsDir() bool        { return s.Mode().IsDir() }
func (s stat) Sys() any           { return nil }
