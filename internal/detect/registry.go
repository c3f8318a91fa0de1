package detect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Detector)
	mu       sync.RWMutex
)

func Register(d Detector) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[d.Name()]; exists {
		panic(fmt.Sprintf("detector %s already registered", d.Name()))
	}
	// Wrap the detector with IgnoreWrapper to provide automatic path
	// ignore support.
	registry[d.Name()] = &IgnoreWrapper{Detector: d}
}

func List() []Detector {
	mu.RLock()
	defer mu.RUnlock()
	var detectors []Detector
	for _, d := range registry {
		detectors = append(detectors, d)
	}
	sort.Slice(detectors, func(i, j int) bool {
		return detectors[i].Name() < detectors[j].Name()
	})
	return detectors
}

// DefaultNames returns the names of every registered detector, sorted.
// Runs that do not request specific detectors get this set.
func DefaultNames() []string {
	all := List()
	names := make([]string, 0, len(all))
	for _, d := range all {
		names = append(names, d.Name())
	}
	return names
}

// Load resolves a single detector by name.
func Load(name string) (Detector, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("detector not found: %s", name)
	}
	return d, nil
}

// Resolve selects detectors by a comma-separated name list. An empty
// selector selects every registered detector.
func Resolve(selector string) ([]Detector, error) {
	if selector == "" {
		return List(), nil
	}

	mu.RLock()
	defer mu.RUnlock()

	names := strings.Split(selector, ",")
	var selected []Detector
	for _, name := range names {
		name = strings.TrimSpace(name)
		if d, ok := registry[name]; ok {
			selected = append(selected, d)
		} else {
			return nil, fmt.Errorf("detector not found: %s", name)
		}
	}
	return selected, nil
}
