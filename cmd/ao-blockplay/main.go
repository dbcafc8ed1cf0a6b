// ABOUTME: Entry point for ao-blockplay
// ABOUTME: Plays a sound file through oto one 16-bit block at a time
package main

import (
	"context"
	"os"

	"github.com/sndrelay/sndrelay-go/internal/app"
	"github.com/sndrelay/sndrelay-go/pkg/audio/output"
)

const name = "ao-blockplay"

func main() {
	os.Exit(app.Main(name, os.Args[1:], func(ctx context.Context, env *app.Env) error {
		return app.PlayBlocking[int16](ctx, env, output.NewOto(env.Log))
	}))
}
