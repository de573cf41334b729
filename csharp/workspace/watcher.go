package workspace

import (
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps the C# files of a host workspace in sync with the disk.
type Watcher struct {
	workspace *Workspace
	fsw       *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewWatcher(w *Workspace) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		workspace: w,
		fsw:       fsw,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start watches every directory under the root. Directories created later
// are added as they appear.
func (w *Watcher) Start() error {
	if err := w.addTree(w.workspace.RootDir()); err != nil {
		return err
	}
	go w.run()
	return nil
}

func (w *Watcher) Stop() {
	close(w.stopCh)
	w.fsw.Close()
	<-w.doneCh
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warningf("watch %s: %s", w.workspace.RootDir(), err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create) && isDir(event.Name):
		if err := w.addTree(event.Name); err != nil {
			log.Warningf("watch %s: %s", event.Name, err)
		}
		if err := w.scanTree(event.Name); err != nil {
			log.Warningf("scan %s: %s", event.Name, err)
		}
	case !IsSourceFile(event.Name):
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		log.Debugf("removed %s", event.Name)
		w.workspace.RemoveFile(event.Name)
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		log.Debugf("changed %s", event.Name)
		if err := w.workspace.ScanFile(event.Name); err != nil {
			log.Warningf("%s", err)
		}
	}
}

// scanTree loads the files of a directory that appeared after Start. Files
// written before the directory was watched produce no events.
func (w *Watcher) scanTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSourceFile(path) {
			return w.workspace.ScanFile(path)
		}
		return nil
	})
}
