// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jeranaias/chatdeck/internal/api"
	"github.com/jeranaias/chatdeck/internal/config"
)

// HandleHealth probes the backend once and exits 0 when it is healthy.
func HandleHealth(cfg *config.Config) {
	client := api.NewClient(cfg.Server.BaseURL)

	if client.CheckHealth(context.Background()) {
		fmt.Printf("backend healthy at %s\n", client.BaseURL())
		return
	}

	fmt.Fprintf(os.Stderr, "backend unreachable at %s\n", client.BaseURL())
	os.Exit(1)
}
