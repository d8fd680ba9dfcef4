package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"

	"9fans.net/go/acme"

	"olowe.co/sonar/sonar"
)

type awin struct {
	*acme.Win
	fsys    fs.FS
	project string
}

func (w *awin) Look(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || !fs.ValidPath(text) {
		return false
	}
	name := path.Join("/sonar", w.project, text)
	if acme.Show(name) != nil {
		return true
	}
	f, err := w.fsys.Open(text)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	} else if err != nil {
		w.Err(err.Error())
		return false
	}

	win, err := acme.New()
	if err != nil {
		f.Close()
		w.Err(err.Error())
		return true
	}
	win.Name(name)
	go func() {
		defer f.Close()
		buf := &bytes.Buffer{}
		if _, err := io.Copy(buf, f); err != nil {
			win.Err(err.Error())
			return
		}
		nw := &awin{win, w.fsys, w.project}
		if _, err := nw.Write("body", buf.Bytes()); err != nil {
			win.Err(err.Error())
			return
		}
		win.Ctl("clean")
		nw.EventLoop(nw)
	}()
	return true
}

func (w *awin) Execute(cmd string) bool {
	return false
}

// openProject lists issues in a window named after the project
// and serves events until the window is deleted.
func openProject(client *sonar.Client, status sonar.Status) {
	fsys := sonar.NewFS(client, status)
	dirs, err := fs.ReadDir(fsys, ".")
	if err != nil {
		log.Fatal(err)
	}

	acme.AutoExit(true)
	win, err := acme.New()
	if err != nil {
		log.Fatal(err)
	}
	project := client.Project().Key
	root := &awin{win, fsys, project}
	buf := &bytes.Buffer{}
	for _, d := range dirs {
		info, err := d.Info()
		if err != nil {
			log.Fatal(err)
		}
		is := info.(*sonar.Issue)
		fmt.Fprintf(buf, "%s\t%s\t%s\n", d.Name(), is.Severity, is.Component)
	}
	if _, err := root.Write("body", buf.Bytes()); err != nil {
		log.Fatal(err)
	}
	root.Name(path.Join("/sonar", project) + "/")
	win.Ctl("clean")
	root.EventLoop(root)
}
