package assets

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/resources"
)

/**
 * @brief CacheWatcher watches an asset directory tree and evicts cache
 * entries when their source files change on disk, so the next load
 * picks up the edited file.
 */
type CacheWatcher struct {
	cache *resources.TextureCache

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewCacheWatcher(cache *resources.TextureCache) (*CacheWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &CacheWatcher{
		cache:    cache,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

/**
 * @brief Starts watching the named directory and all sub-directories
 * and begins dispatching eviction events.
 */
func (cw *CacheWatcher) WatchRecursive(name string) error {
	if cw.isClosed {
		return errors.New("watcher instance already closed")
	}
	if err := cw.watchRecursive(name, false); err != nil {
		return err
	}
	go cw.start()
	return nil
}

/** @brief Stops watching the named directory and all sub-directories. */
func (cw *CacheWatcher) UnwatchRecursive(name string) error {
	return cw.watchRecursive(name, true)
}

func (cw *CacheWatcher) Close() {
	if cw.isClosed {
		return
	}
	cw.isClosed = true
	close(cw.done)
}

func (cw *CacheWatcher) start() {
	for {
		select {

		case e := <-cw.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					cw.watchRecursive(e.Name, false)
				}
				continue
			}
			if e.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				key := resources.CacheKey(e.Name)
				cw.cache.Remove(key)
				core.LogDebug("asset watcher: evicted %q after %s", key, e.Op)
			}
			if e.Op&fsnotify.Remove != 0 {
				cw.fsnotify.Remove(e.Name)
			}

		case e := <-cw.fsnotify.Errors:
			core.LogError(e.Error())

		case <-cw.done:
			cw.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (cw *CacheWatcher) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				if err = cw.fsnotify.Remove(walkPath); err != nil {
					return err
				}
			} else {
				if err = cw.fsnotify.Add(walkPath); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
