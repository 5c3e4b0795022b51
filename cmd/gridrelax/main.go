package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gridrelax/gridrelax/cmd/gridrelax/cmd"
	"github.com/gridrelax/gridrelax/pkg/telemetry"
)

func main() {
	ctx := context.Background()

	shutdown, err := telemetry.Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
	}
	defer shutdown(ctx)

	cmd.Execute()
}
