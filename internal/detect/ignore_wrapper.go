package detect

import "context"

// IgnoreWrapper wraps a Detector to provide automatic path ignore
// functionality. Every registered detector is wrapped, so ignore.paths is
// available whether or not the detector itself is configurable.
type IgnoreWrapper struct {
	Detector
	ignoreList IgnoreList
}

// Name returns the inner detector's Name.
func (w *IgnoreWrapper) Name() string {
	return w.Detector.Name()
}

// Title returns the inner detector's Title.
func (w *IgnoreWrapper) Title() string {
	return w.Detector.Title()
}

// Description returns the inner detector's Description.
func (w *IgnoreWrapper) Description() string {
	return w.Detector.Description()
}

// Metadata returns the inner detector's Metadata.
func (w *IgnoreWrapper) Metadata() Metadata {
	return w.Detector.Metadata()
}

// Detect calls the inner detector's Detect and drops issues on ignored paths.
func (w *IgnoreWrapper) Detect(ctx context.Context, workspaceRoot string) ([]Issue, error) {
	issues, err := w.Detector.Detect(ctx, workspaceRoot)
	if err != nil {
		return issues, err
	}
	return w.ignoreList.Filter(issues), nil
}

// Options returns the combined options of the ignore list and the inner
// detector (if configurable).
func (w *IgnoreWrapper) Options() []Option {
	opts := w.ignoreList.Options()
	if cd, ok := w.Detector.(ConfigurableDetector); ok {
		opts = append(opts, cd.Options()...)
	}
	return opts
}

// Configure configures the ignore list and the inner detector (if
// configurable). Wrapper-owned options are stripped before delegating so
// inner detectors that reject unknown keys never see them.
func (w *IgnoreWrapper) Configure(opts map[string]string) error {
	w.ignoreList.Configure(opts)

	cd, ok := w.Detector.(ConfigurableDetector)
	if !ok {
		return nil
	}

	owned := make(map[string]bool)
	for _, opt := range w.ignoreList.Options() {
		owned[opt.Name] = true
	}
	inner := make(map[string]string, len(opts))
	for name, value := range opts {
		if owned[name] {
			continue
		}
		inner[name] = value
	}
	return cd.Configure(inner)
}
