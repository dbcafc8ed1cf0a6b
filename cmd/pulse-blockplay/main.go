// ABOUTME: Entry point for pulse-blockplay
// ABOUTME: Plays a sound file to the sound server one block at a time, draining at the end
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
)

const name = "pulse-blockplay"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.PlayBlocking[float32](ctx, env, output.NewPulseBlocking(output.PulseOptions{
			AppName:   env.Name,
			SinkIndex: env.Config.DeviceIndex,
			Listing:   env.Listing(),
			Logger:    env.Log,
		}))
	}))
}
