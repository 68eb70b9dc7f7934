package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/physicstest/common"
	"github.com/milk9111/physicstest/demos"
	"github.com/milk9111/physicstest/prefabs"
	"github.com/milk9111/physicstest/scene"
	"github.com/pkg/profile"
)

func main() {
	debug := flag.Bool("debug", false, "start with physics debug drawing and stats on")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	demoName := flag.String("demo", "", "demo file in demos/ to open directly (e.g. shapes.yaml); empty shows the list")
	watch := flag.Bool("watch", false, "reload the running demo when files in prefabs/ or demos/ change")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("unknown -profile mode %q (want cpu or mem)", *profileMode)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("physicstest")
	ebiten.SetTPS(common.TPS)

	var watcher *prefabs.Watcher
	if *watch {
		w, err := prefabs.NewWatcher("prefabs", "demos", "demos/scripts")
		if err != nil {
			log.Printf("watch disabled: %v", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	game := NewGame(watcher)
	opts := scene.Options{Debug: *debug, Width: common.BaseWidth, Height: common.BaseHeight}

	first, err := firstScene(game, *demoName, opts)
	if err != nil {
		log.Fatal(err)
	}
	game.Replace(first)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func firstScene(director scene.Director, demoName string, opts scene.Options) (scene.Scene, error) {
	if demoName == "" {
		return scene.NewContentScene(director, opts)
	}
	spec, err := demos.LoadSpec(demoName)
	if err != nil {
		return nil, err
	}
	return scene.NewDemoScene(director, spec, opts)
}
