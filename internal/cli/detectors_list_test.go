package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"insight/internal/detect"
)

// mockDetector implements detect.Detector for testing purposes
type mockDetector struct {
	name        string
	title       string
	description string
	meta        detect.Metadata
}

func (m *mockDetector) Name() string              { return m.name }
func (m *mockDetector) Title() string             { return m.title }
func (m *mockDetector) Description() string       { return m.description }
func (m *mockDetector) Metadata() detect.Metadata { return m.meta }
func (m *mockDetector) Detect(ctx context.Context, workspaceRoot string) ([]detect.Issue, error) {
	return nil, nil
}

// mockConfigurableDetector implements detect.ConfigurableDetector
type mockConfigurableDetector struct {
	mockDetector
	options []detect.Option
}

func (m *mockConfigurableDetector) Options() []detect.Option {
	return m.options
}

func (m *mockConfigurableDetector) Configure(opts map[string]string) error {
	return nil
}

func TestPrintDetector(t *testing.T) {
	tests := []struct {
		name           string
		detector       detect.Detector
		expectedOutput []string
		notExpected    []string
	}{
		{
			name: "Regular Detector",
			detector: &mockDetector{
				name:        "simple-detector",
				title:       "Simple Detector",
				description: "A simple detector description",
				meta:        detect.Metadata{Scope: detect.ScopeWorkspace},
			},
			expectedOutput: []string{
				"DETECTOR: simple-detector",
				"Simple Detector",
				"A simple detector description",
				"Scope: workspace",
			},
			notExpected: []string{
				"Options:",
				"Extensions:",
			},
		},
		{
			name: "Configurable Detector",
			detector: &mockConfigurableDetector{
				mockDetector: mockDetector{
					name:        "config-detector",
					title:       "Config Detector",
					description: "A configurable detector description",
					meta:        detect.Metadata{Scope: detect.ScopeFile, Extensions: []string{".go"}},
				},
				options: []detect.Option{
					{
						Name:        "opt1",
						Description: "Option 1 description",
						Default:     "default1",
					},
					{
						Name:        "opt2",
						Description: "Option 2 description",
						Default:     "",
					},
				},
			},
			expectedOutput: []string{
				"DETECTOR: config-detector",
				"Config Detector",
				"A configurable detector description",
				"Scope: file",
				"Extensions: [.go]",
				"Options:",
				"opt1",
				"Description: Option 1 description",
				"Default:     default1",
				"opt2",
				"Description: Option 2 description",
				"Default:     \"\"",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			printDetector(buf, tt.detector)
			output := buf.String()

			for _, exp := range tt.expectedOutput {
				if !strings.Contains(output, exp) {
					t.Errorf("Expected output to contain %q, but it didn't.\nOutput:\n%s", exp, output)
				}
			}

			for _, notExp := range tt.notExpected {
				if strings.Contains(output, notExp) {
					t.Errorf("Expected output NOT to contain %q, but it did.\nOutput:\n%s", notExp, output)
				}
			}
		})
	}
}

func TestDetectorsListQuiet(t *testing.T) {
	detect.Register(&mockDetector{name: "zz-quiet-detector", title: "Q", description: "q"})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		detectorsListQuiet = false
	})

	rootCmd.SetArgs([]string{"detectors", "list", "--quiet"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "zz-quiet-detector") {
		t.Errorf("quiet list missing detector name:\n%s", out)
	}
	if strings.Contains(out, "DETECTOR:") {
		t.Errorf("quiet list printed detail blocks:\n%s", out)
	}
}
