package fpsim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if config.Delimiter != DefaultDelimiter {
		t.Errorf("Expected delimiter %q, got %q", DefaultDelimiter, config.Delimiter)
	}

	// The alpha/beta defaults realize the Tanimoto coefficient
	if config.Alpha != 1.0 || config.Beta != 1.0 {
		t.Errorf("Expected alpha/beta 1/1, got %v/%v", config.Alpha, config.Beta)
	}

	if config.Workers != DefaultWorkers {
		t.Errorf("Expected Workers %d, got %d", DefaultWorkers, config.Workers)
	}

	if config.Cutoff != DefaultCutoff {
		t.Errorf("Expected Cutoff %v, got %v", DefaultCutoff, config.Cutoff)
	}

	if config.Weighted || config.GPU {
		t.Error("Expected Weighted and GPU to default to false")
	}

	if err := Validate(config); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestValidate_Delimiter(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		wantErr   bool
	}{
		{name: "space", delimiter: " ", wantErr: false},
		{name: "tab", delimiter: "\t", wantErr: false},
		{name: "comma", delimiter: ",", wantErr: false},
		{name: "multibyte rune", delimiter: "·", wantErr: false},
		{name: "empty", delimiter: "", wantErr: true},
		{name: "two characters", delimiter: ", ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Delimiter = tt.delimiter

			err := Validate(config)
			if tt.wantErr && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidate_NegativeCoefficients(t *testing.T) {
	config := DefaultConfig()
	config.Alpha = -0.1

	if err := Validate(config); !errors.Is(err, ErrNegativeCoefficient) {
		t.Errorf("Expected ErrNegativeCoefficient, got %v", err)
	}

	config = DefaultConfig()
	config.Beta = -1

	if err := Validate(config); !errors.Is(err, ErrNegativeCoefficient) {
		t.Errorf("Expected ErrNegativeCoefficient, got %v", err)
	}
}

func TestValidate_NegativeFields(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.Workers = -1 },
		func(c *Config) { c.Cutoff = -0.5 },
		func(c *Config) { c.GPUID = -1 },
	} {
		config := DefaultConfig()
		mutate(config)

		if err := Validate(config); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
		}
	}
}

func TestLoadFromYAML(t *testing.T) {
	content := `fpsim:
  delimiter: "\t"
  alpha: 0.5
  beta: 0.5
  workers: 4
  cutoff: 0.7
  weighted: true
  gpu: true
  gpu_id: 1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	config, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if config.Delimiter != "\t" {
		t.Errorf("Expected tab delimiter, got %q", config.Delimiter)
	}
	if config.Alpha != 0.5 || config.Beta != 0.5 {
		t.Errorf("Expected alpha/beta 0.5/0.5, got %v/%v", config.Alpha, config.Beta)
	}
	if config.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", config.Workers)
	}
	if config.Cutoff != 0.7 {
		t.Errorf("Expected cutoff 0.7, got %v", config.Cutoff)
	}
	if !config.Weighted || !config.GPU || config.GPUID != 1 {
		t.Errorf("Expected weighted/gpu/gpu_id true/true/1, got %v/%v/%d",
			config.Weighted, config.GPU, config.GPUID)
	}
}

func TestLoadFromYAML_PartialOverride(t *testing.T) {
	// Unset keys keep their defaults.
	content := "fpsim:\n  alpha: 2\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	config, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if config.Alpha != 2 {
		t.Errorf("Expected alpha 2, got %v", config.Alpha)
	}
	if config.Beta != DefaultBeta {
		t.Errorf("Expected default beta, got %v", config.Beta)
	}
	if config.Delimiter != DefaultDelimiter {
		t.Errorf("Expected default delimiter, got %q", config.Delimiter)
	}
}

func TestLoadFromYAML_InvalidValues(t *testing.T) {
	content := "fpsim:\n  alpha: -1\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	if _, err := LoadFromYAML(path); !errors.Is(err, ErrNegativeCoefficient) {
		t.Errorf("Expected ErrNegativeCoefficient, got %v", err)
	}
}

func TestLoadFromYAML_MissingFile(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}
