package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gekko3d/flycam"
	"github.com/gekko3d/flycam/trace"
)

func main() {
	scriptPath := flag.String("script", "", "Replay script (YAML)")
	out := flag.String("out", "flight.png", "Where to write the path plot")
	size := flag.Int("size", 512, "Plot width and height in pixels")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: flycam-replay -script flight.yaml [-out flight.png]")
		os.Exit(2)
	}

	script, err := trace.LoadScript(*scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rec := trace.NewRecorder()
	app := flycam.NewAppBuilder().
		UseModule(flycam.LoggingModule{Prefix: "replay", Debug: *debug}).
		UseModule(flycam.TimeModule{FixedStep: script.FixedStep()}).
		UseModule(flycam.InputModule{}).
		UseModule(flycam.FlyingCameraModule{Camera: script.CameraConfig()}).
		UseModule(flycam.RenderFeedModule{}).
		UseModule(trace.PlayerModule{Script: script}).
		Build()
	flycam.Resource[flycam.RenderFeed](app).Register(rec)

	app.Run()

	logger := app.Logger()
	samples := rec.Samples()
	if len(samples) > 0 {
		last := samples[len(samples)-1]
		logger.Infof("Final position %v, gaze %v, fov %.1f", last.Position, last.Gaze, last.FieldOfView)
	}

	if err := trace.SavePNG(*out, trace.Plot(samples, *size, *size)); err != nil {
		logger.Errorf("Writing %s: %v", *out, err)
		os.Exit(1)
	}
	logger.Infof("Wrote %s (%d samples)", *out, len(samples))
}
