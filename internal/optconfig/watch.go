package optconfig

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/orizon-lang/scriptopt/internal/optimizer"
)

// Update is a configuration reloaded from disk together with its pipeline.
type Update struct {
	Config   *Config
	Pipeline *optimizer.Pipeline
}

// Watcher reloads a configuration file whenever it changes.
type Watcher struct {
	path string
	w    *fsnotify.Watcher
	upC  chan Update
	erC  chan error
	done chan struct{}
	once sync.Once
}

// Watch starts watching path. The parent directory is watched so that editors
// which replace the file by renaming are noticed too.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	cw := &Watcher{
		path: abs,
		w:    w,
		upC:  make(chan Update, 1),
		erC:  make(chan error, 1),
		done: make(chan struct{}),
	}
	go cw.loop()
	return cw, nil
}

func (cw *Watcher) loop() {
	defer close(cw.upC)

	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			cw.reload()
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			cw.report(err)
		case <-cw.done:
			return
		}
	}
}

func (cw *Watcher) reload() {
	config, err := Load(cw.path)
	if err != nil {
		cw.report(err)
		return
	}
	pipeline, err := config.Build()
	if err != nil {
		cw.report(err)
		return
	}

	select {
	case cw.upC <- Update{Config: config, Pipeline: pipeline}:
	case <-cw.done:
	}
}

// report drops the error if the previous one has not been read yet.
func (cw *Watcher) report(err error) {
	select {
	case cw.erC <- err:
	default:
	}
}

func (cw *Watcher) Updates() <-chan Update { return cw.upC }
func (cw *Watcher) Errors() <-chan error   { return cw.erC }

// Close stops the watcher. Updates is closed once the loop has exited.
func (cw *Watcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.done)
		err = cw.w.Close()
	})
	return err
}
