package sonar

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"
)

// FS presents a project's issues as a read-only filesystem.
// The root directory holds one file per issue, named by issue key.
// Reading a file returns the issue as printed by PrintIssue.
//
// Issues are fetched on the first call to Open
// and are not refreshed for the lifetime of the FS.
type FS struct {
	client *Client
	status Status

	once   sync.Once
	issues []Issue
	err    error
}

// NewFS returns a filesystem of the client's issues with the given status.
func NewFS(client *Client, status Status) *FS {
	return &FS{client: client, status: status}
}

func (fsys *FS) load() error {
	fsys.once.Do(func() {
		fsys.issues, fsys.err = fsys.client.AllIssues(context.Background(), fsys.status)
	})
	return fsys.err
}

func (fsys *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	name = path.Clean(name)
	if err := fsys.load(); err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	if name == "." {
		entries := make([]fs.DirEntry, len(fsys.issues))
		var mtime time.Time
		for i := range fsys.issues {
			is := &fsys.issues[i]
			entries[i] = fs.FileInfoToDirEntry(is)
			if is.ModTime().After(mtime) {
				mtime = is.ModTime()
			}
		}
		info := stat{".", int64(len(entries)), 0o555 | fs.ModeDir, mtime}
		return &dir{info: info, entries: entries}, nil
	}
	for i := range fsys.issues {
		is := &fsys.issues[i]
		if is.Key == name {
			return &file{is: is, rd: strings.NewReader(printIssue(is))}, nil
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

type file struct {
	is *Issue
	rd *strings.Reader
}

func (f *file) Stat() (fs.FileInfo, error) { return f.is, nil }
func (f *file) Read(p []byte) (int, error) { return f.rd.Read(p) }
func (f *file) Close() error               { return nil }

type dir struct {
	info    stat
	entries []fs.DirEntry
	off     int
}

func (d *dir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *dir) Close() error               { return nil }

func (d *dir) Read(p []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: errors.New("is a directory")}
}

func (d *dir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.off:]
	if n <= 0 {
		d.off = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.off += n
	return rest[:n], nil
}
