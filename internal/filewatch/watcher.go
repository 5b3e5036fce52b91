package filewatch

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reloads the household store whenever a watched CSV changes.
type FileWatcher struct {
	store   *HouseholdStore
	watcher *fsnotify.Watcher
}

// NewFileWatcher watches the given files or directories.
func NewFileWatcher(paths []string, store *HouseholdStore) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := w.Add(path); err != nil {
			w.Close()
			return nil, err
		}
	}

	return &FileWatcher{store: store, watcher: w}, nil
}

// Watch handles events until the context ends or the watcher is closed.
func (fw *FileWatcher) Watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if filepath.Ext(event.Name) == ".csv" {
					log.Printf("Household file changed: %s", event.Name)
					fw.HandleFileChange(event.Name)
				}
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// HandleFileChange reloads the store from a changed file. Reloads that
// change who is in the household are refused.
func (fw *FileWatcher) HandleFileChange(path string) {
	if err := fw.store.Reload(path); err != nil {
		log.Printf("Keeping previous household: %v", err)
		return
	}
	log.Printf("Household reloaded from %s (%d members)", path, len(fw.store.Members()))
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
