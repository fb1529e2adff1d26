// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"shopping-assistant/pkg/registry"
)

func main() {
	taskType := flag.String("activity", "", "Task type from the registry (e.g., rank-listings)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	module := flag.String("module", "shopping-assistant", "Go module path used in imports")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *taskType == "" {
		fmt.Fprintln(os.Stderr, "Error: -activity is required")
		flag.Usage()
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		os.Exit(1)
	}

	activity, ok := reg.Find(*taskType)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: activity %q not found in %s\n", *taskType, *registryPath)
		os.Exit(1)
	}

	files, err := Generate(*activity, Options{
		OutputDir: *outputDir,
		Module:    *module,
		Force:     *force,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating worker: %v\n", err)
		os.Exit(1)
	}

	for _, f := range files {
		fmt.Printf("  created %s\n", f)
	}
	fmt.Printf("Worker %s scaffolded. Register it in cmd/worker-manager/workers.go.\n", activity.TaskType)
}
