// cmd/tools/registry-updater/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"shopping-assistant/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:], os.Stdout)
	case "list":
		err = runList(os.Args[2:], os.Stdout)
	default:
		help(os.Stdout)
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., rank-listings)")
	displayName := fs.String("displayName", "", "Display Name (e.g., Rank Listings)")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "shopping", "Category")
	taskType := fs.String("taskType", "", "Zeebe task type, defaults to the id")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
	timeout := fs.String("timeout", "30s", "Job timeout")
	retries := fs.Int("retries", 3, "Job retries")
	tags := fs.String("tags", "", "Comma separated tags")
	fs.Parse(args)

	if *id == "" || *displayName == "" || *description == "" {
		fs.Usage()
		return errors.New("id, displayName and description are required for add")
	}
	if *taskType == "" {
		*taskType = *id
	}

	reg, err := registry.LoadRegistry(*path)
	if errors.Is(err, os.ErrNotExist) {
		reg, err = registry.New(), nil
	}
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity := registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{"type": "object"},
		OutputSchema:         map[string]interface{}{"type": "object"},
		ErrorCodes:           []string{"INVALID_INPUT"},
		Timeout:              *timeout,
		Retries:              *retries,
		Workflows:            []string{"shopping-assistant"},
		Tags:                 splitTags(*tags),
	}
	if err := reg.Add(activity); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry would be invalid: %w", err)
	}
	if err := reg.Save(*path); err != nil {
		return err
	}

	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, timeout, retries, ...)")
	value := fs.String("value", "", "New value for the field")
	fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return errors.New("id, field and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Update(*id, *field, *value); err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}

	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed:\n%w", err)
	}

	fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func runList(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "Path to registry file")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK TYPE\tSTATUS\tTIMEOUT\tRETRIES\tERROR CODES")
	for _, a := range reg.Activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			a.TaskType, a.ImplementationStatus, a.Timeout, a.Retries, strings.Join(a.ErrorCodes, ","))
	}
	return tw.Flush()
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

const usage = `
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file
  list      Print registered activities
  help      Show this help message

Examples:
  registry-updater add -id tag-listings -displayName "Tag Listings" -description "Derives SEO tags" -timeout 60s -tags postgres,maintenance
  registry-updater update -id tag-listings -field status -value completed
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`

func help(out io.Writer) {
	fmt.Fprint(out, usage)
}
