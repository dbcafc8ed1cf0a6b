// ABOUTME: Entry point for pulse-rec
// ABOUTME: Records a 16-bit WAV file from the default source through the record callback
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/input"
)

const name = "pulse-rec"

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
