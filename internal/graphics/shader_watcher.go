package graphics

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var shaderExtensions = map[string]bool{
	".vert": true,
	".frag": true,
	".glsl": true,
}

// ShaderWatcher reports edits to shader sources in a directory. The fsnotify
// loop runs on its own goroutine and only signals; the render thread polls
// Changed and does all GL work itself.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	changed chan string
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewShaderWatcher starts watching dir
func NewShaderWatcher(dir string, logger *slog.Logger) (*ShaderWatcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &ShaderWatcher{
		watcher: fw,
		changed: make(chan string, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	w.wg.Add(1)
	go w.loop()
	logger.Info("watching shaders", "dir", dir)
	return w, nil
}

func (w *ShaderWatcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !shaderExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			// one pending signal is enough; later edits coalesce into it
			select {
			case w.changed <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watcher", "err", err)
		}
	}
}

// Changed reports, without blocking, whether a shader file changed since the
// last call, and the name of the first changed file
func (w *ShaderWatcher) Changed() (string, bool) {
	select {
	case name := <-w.changed:
		return name, true
	default:
		return "", false
	}
}

// Close stops the watcher goroutine
func (w *ShaderWatcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
