package camrig

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// KeybindWatcher reports changes to one keybind file. The parent directory
// is watched so editors that replace the file on save are still seen.
type KeybindWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewKeybindWatcher(path string) (*KeybindWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch keybinds: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch keybinds: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch keybinds: %w", err)
	}

	kw := &KeybindWatcher{
		path:    abs,
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go kw.run()
	return kw, nil
}

func (kw *KeybindWatcher) Path() string {
	return kw.path
}

func (kw *KeybindWatcher) Close() error {
	var err error
	kw.once.Do(func() {
		close(kw.closeCh)
		err = kw.watcher.Close()
		<-kw.done
	})
	return err
}

func (kw *KeybindWatcher) run() {
	defer func() {
		close(kw.Events)
		close(kw.Errors)
		close(kw.done)
	}()

	for {
		select {
		case event, ok := <-kw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != kw.path {
				continue
			}
			// A full queue already means "reload".
			select {
			case kw.Events <- event.Name:
			default:
			}
		case err, ok := <-kw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case kw.Errors <- err:
			default:
			}
		case <-kw.closeCh:
			return
		}
	}
}

// KeybindModule installs the Keybinds resource. With a Path the file is
// loaded at startup (a missing file means defaults) and, when Watch is set,
// re-applied whenever it changes on disk.
type KeybindModule struct {
	Path  string
	Watch bool
}

func (mod KeybindModule) Install(app *App, cmd *Commands) {
	log := app.Logger()
	kb := DefaultKeybinds()

	if mod.Path != "" {
		loaded, err := LoadKeybinds(mod.Path)
		switch {
		case err == nil:
			kb = loaded
			log.Infof("keybinds loaded from %s", mod.Path)
		case errors.Is(err, fs.ErrNotExist):
			log.Debugf("no keybind file at %s, using defaults", mod.Path)
		default:
			log.Warnf("keybinds: %v; using defaults", err)
		}
	}
	cmd.AddResources(kb)

	if mod.Path == "" || !mod.Watch {
		return
	}
	watcher, err := NewKeybindWatcher(mod.Path)
	if err != nil {
		log.Warnf("keybind hot reload disabled: %v", err)
		return
	}
	cmd.AddResources(watcher)
	app.UseSystem(
		System(keybindReloadSystem).
			InStage(Prelude),
	)
}

// keybindReloadSystem drains pending watcher events without blocking. A
// file that fails to load leaves the current bindings untouched.
func keybindReloadSystem(kb *Keybinds, kw *KeybindWatcher, cmd *Commands) {
	log := cmd.Logger()
	select {
	case _, ok := <-kw.Events:
		if !ok {
			return
		}
	case err, ok := <-kw.Errors:
		if ok {
			log.Warnf("keybind watcher: %v", err)
		}
		return
	default:
		return
	}
	// Coalesce anything else already queued.
	for drained := false; !drained; {
		select {
		case _, ok := <-kw.Events:
			drained = !ok
		default:
			drained = true
		}
	}

	loaded, err := LoadKeybinds(kw.path)
	if err != nil {
		log.Warnf("keybind reload: %v; keeping previous bindings", err)
		return
	}
	kb.apply(loaded)
	log.Infof("keybinds reloaded from %s", kw.path)
}
