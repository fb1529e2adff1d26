// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrDuplicateID      = errors.New("duplicate activity id")
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", path, err)
	}
	return &reg, nil
}

// New returns an empty registry stamped with the current time.
func New() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Activities:  []Activity{},
	}
}

// Save writes the registry as indented JSON, creating parent directories.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// Find returns the activity bound to taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// TaskTypes lists every registered task type, sorted.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}

// Validate checks required fields and that ids and task types are unique.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]bool, len(r.Activities))
	var errs []error
	for i, a := range r.Activities {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("activity %d: missing id", i))
			continue
		}
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateID, a.ID))
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			errs = append(errs, fmt.Errorf("activity %s: missing displayName", a.ID))
		}
		if a.Category == "" {
			errs = append(errs, fmt.Errorf("activity %s: missing category", a.ID))
		}
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %s: missing taskType", a.ID))
		} else if taskTypes[a.TaskType] {
			errs = append(errs, fmt.Errorf("activity %s: task type %s registered twice", a.ID, a.TaskType))
		}
		taskTypes[a.TaskType] = true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("activity %s: invalid timeout %q", a.ID, a.Timeout))
			}
		}
		if a.Retries < 0 {
			errs = append(errs, fmt.Errorf("activity %s: negative retries", a.ID))
		}
	}
	return errors.Join(errs...)
}

// Add appends an activity, rejecting duplicate ids.
func (r *ActivityRegistry) Add(a Activity) error {
	for _, existing := range r.Activities {
		if existing.ID == a.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
		}
	}
	r.Activities = append(r.Activities, a)
	r.touch()
	return nil
}

// Update sets one scalar field of the activity with the given id.
func (r *ActivityRegistry) Update(id, field, value string) error {
	var target *Activity
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			target = &r.Activities[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}

	switch field {
	case "status":
		target.ImplementationStatus = value
	case "version":
		target.Version = value
	case "displayName":
		target.DisplayName = value
	case "description":
		target.Description = value
	case "category":
		target.Category = value
	case "taskType":
		target.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		target.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		target.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	r.touch()
	return nil
}

// Diff compares the registry with the task types a process actually serves.
// unregistered are served but missing from the registry; unserved are
// registered but not served.
func (r *ActivityRegistry) Diff(served []string) (unregistered, unserved []string) {
	servedSet := make(map[string]bool, len(served))
	for _, t := range served {
		servedSet[t] = true
		if _, ok := r.Find(t); !ok {
			unregistered = append(unregistered, t)
		}
	}
	for _, t := range r.TaskTypes() {
		if !servedSet[t] {
			unserved = append(unserved, t)
		}
	}
	sort.Strings(unregistered)
	return unregistered, unserved
}

func (r *ActivityRegistry) touch() {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}
