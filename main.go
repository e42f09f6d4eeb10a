package main

import (
	"flag"
	"os"
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/aurora/engine/assets"
	"github.com/spaghettifunk/aurora/engine/config"
	"github.com/spaghettifunk/aurora/engine/core"
	"github.com/spaghettifunk/aurora/engine/math"
	"github.com/spaghettifunk/aurora/engine/model"
	"github.com/spaghettifunk/aurora/engine/renderer"
	"github.com/spaghettifunk/aurora/engine/resources"
	"github.com/spaghettifunk/aurora/engine/systems"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogWarn("failed to load %s, using defaults: %v", *configPath, err)
		cfg = config.Default()
	}

	if err := run(cfg); err != nil {
		core.LogFatal(err.Error())
	}
}

func run(cfg *config.Config) error {
	session := core.NewSessionID()
	core.LogInfo("session %s: loading %d models with %d workers", session, len(cfg.Models), cfg.WorkerCount)

	cache := resources.NewTextureCache()

	if cfg.WatchAssets {
		watcher, err := assets.NewCacheWatcher(cache)
		if err != nil {
			return err
		}
		if err := watcher.WatchRecursive(cfg.AssetBasePath); err != nil {
			core.LogWarn("failed to watch %s: %v", cfg.AssetBasePath, err)
		}
		defer watcher.Close()
	}

	device := renderer.NewNullDevice()
	ctx := renderer.NewNullContext()

	jobs, err := systems.NewJobSystem(cfg.WorkerCount, len(cfg.Models))
	if err != nil {
		return err
	}
	defer jobs.Shutdown()

	var mu sync.Mutex
	var models []*model.Model
	var wg sync.WaitGroup

	for _, file := range cfg.Models {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.AssetBasePath, path)
		}
		if _, err := os.Stat(path); err != nil {
			core.LogWarn("skipping %s: %v", path, err)
			continue
		}

		wg.Add(1)
		jobs.Submit(systems.JobTask{
			ID:          path,
			InputParams: path,
			OnStart: func(params interface{}, results chan<- interface{}) error {
				m, err := model.LoadFromFile(device, model.CreateInfo{
					FileName:        params.(string),
					SceneIndex:      -1,
					Cache:           cache,
					PlaceholderSize: uint32(cfg.PlaceholderSize),
				})
				if err != nil {
					return err
				}
				results <- m
				return nil
			},
			OnComplete: func(results <-chan interface{}) {
				m := (<-results).(*model.Model)
				mu.Lock()
				models = append(models, m)
				mu.Unlock()
			},
			OnFailure: func(err error) {
				core.LogError("session %s: model load failed: %v", session, err)
			},
			OnCompletionCallback: wg.Done,
		})
	}
	wg.Wait()

	for _, m := range models {
		m.PrepareGPUResources(device, ctx)

		var transforms model.ModelTransforms
		m.ComputeTransforms(&transforms, math.NewMat4Identity(), -1, 0)
		if bb, ok := m.ComputeBoundingBox(&transforms); ok {
			core.LogInfo("scene %q bounds min=(%.3f %.3f %.3f) max=(%.3f %.3f %.3f)",
				m.SceneName, bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z)
		}
		core.LogInfo("loaded model: %d nodes, %d meshes, %d materials, %d textures, %d animations",
			len(m.Nodes), len(m.Meshes), len(m.Materials), len(m.Textures), len(m.Animations))
	}

	core.LogInfo("device stats: %d textures, %d buffers created, %d texture updates, %d buffer updates",
		device.TexturesCreated(), device.BuffersCreated(), ctx.TextureUpdates, ctx.BufferUpdates)

	if cache.Len() > cfg.MaxTextureCount {
		core.LogWarn("texture cache holds %d entries, limit is %d", cache.Len(), cfg.MaxTextureCount)
	}

	for _, m := range models {
		m.Destroy()
	}
	return nil
}
