// ABOUTME: Entry point for pulse-blockrec
// ABOUTME: Records a WAV file from the sound server one block at a time
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/input"
)

const name = "pulse-blockrec"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.RecordBlocking[float32](ctx, env, input.NewPulseBlocking(input.PulseOptions{
			AppName:     env.Name,
			SourceIndex: env.Config.DeviceIndex,
			Listing:     env.Listing(),
			Latency:     env.Config.Latency.Initial,
			Logger:      env.Log,
		}))
	}))
}
