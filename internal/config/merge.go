package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DeckOverlayFile is the per-deck configuration overlay file name.
const DeckOverlayFile = ".insightdeck.yaml"

// Top-level YAML config key names used for shallow merge.
const (
	keyLogging = "logging"
	keyRender  = "render"
	keyModules = "modules"
	keySource  = "source"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A key present in the overlay replaces the whole section; absent keys
// leave target unchanged. Unknown keys are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// MergeDeckOverlay applies dir/.insightdeck.yaml onto target when it exists.
func MergeDeckOverlay(target *Config, dir string) error {
	path := filepath.Join(dir, DeckOverlayFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := ShallowMergeYAML(target, path); err != nil {
		return err
	}
	return target.Validate()
}

// decodeSection decodes one overlay section into a fresh zero value so the
// section is replaced rather than merged field by field.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyRender:
		var v RenderConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Render = v
	case keyModules:
		var v ModulesConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Modules = v
	case keySource:
		var v SourceConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Source = v
	}
	return nil
}
