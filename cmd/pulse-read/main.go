// ABOUTME: Entry point for pulse-read
// ABOUTME: Plays a sound file to the default sink from the stream callback, growing latency on underflow
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/latency"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
)

const name = "pulse-read"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		var controller *latency.Controller
		if lat := env.Config.Latency; lat.Enabled {
			controller = latency.New(latency.Options{
				Initial:   lat.Initial,
				Ceiling:   lat.Ceiling,
				Threshold: lat.Threshold,
				Logger:    env.Log,
			})
		}
		return app.PlayCallback[float32](ctx, env, output.NewPulseCallback(output.PulseOptions{
			AppName:   env.Name,
			SinkIndex: env.Config.DeviceIndex,
			Listing:   env.Listing(),
			Latency:   controller,
			Logger:    env.Log,
		}))
	}))
}
