// Command induction-hob runs the hob control core: as a daemon driving the
// panel and publishing to MQTT, or headless for reproducible simulations.
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
