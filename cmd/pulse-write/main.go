// ABOUTME: Entry point for pulse-write
// ABOUTME: Records a float WAV file from a chosen source through the record callback
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/input"
)

const name = "pulse-write"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.RecordCallback[float32](ctx, env, input.NewPulseCallback(input.PulseOptions{
			AppName:     env.Name,
			SourceIndex: env.Config.DeviceIndex,
			Listing:     env.Listing(),
			Latency:     env.Config.Latency.Initial,
			Logger:      env.Log,
		}))
	}))
}
