/*
This is an example of a tool session that uses the engine package to
build a scene and combine its meshes.
*/
package main

import (
	"os"

	"github.com/spaghettifunk/anvil/engine/config"
	"github.com/spaghettifunk/anvil/engine/core"
	"github.com/spaghettifunk/anvil/engine/systems"
	"github.com/spaghettifunk/anvil/testbed"
)

const configPath = "anvil.toml"

func main() {
	core.EventInitialize()
	defer core.EventShutdown()

	cfg := config.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		watcher, err := config.NewWatcher(configPath, nil)
		if err != nil {
			core.LogFatal("failed to load config: %v", err)
		}
		defer watcher.Close()
		cfg = watcher.Current()
	}

	sm, err := systems.NewSystemManager(cfg.Systems.MaxMaterialCount, cfg.Systems.MaxGeometryCount)
	if err != nil {
		core.LogFatal("failed to initialize systems: %v", err)
	}
	defer sm.Shutdown()

	tb, err := testbed.NewTestGame(sm, cfg)
	if err != nil {
		core.LogFatal("failed to create testbed: %v", err)
	}
	defer tb.Shutdown()

	if err := tb.Initialize(); err != nil {
		core.LogFatal("failed to initialize testbed: %v", err)
	}
	if err := tb.Run(); err != nil {
		core.LogFatal("combine failed: %v", err)
	}
}
