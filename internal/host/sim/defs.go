package sim

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"blockpalette/internal/host"
)

var (
	//go:embed defaults/toolbox.xml
	defaultToolbox []byte
	//go:embed defaults/blocks.yaml
	defaultBlocks []byte
)

const (
	defaultBlockWidth  = 100
	defaultBlockHeight = 40
)

// FieldDef describes one field of an input row
type FieldDef struct {
	Text   string `yaml:"text"`
	Hidden bool   `yaml:"hidden"`
}

// InputDef describes one input row
type InputDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// BlockDef describes an instantiable block type
type BlockDef struct {
	Type   string     `yaml:"type"`
	Inputs []InputDef `yaml:"inputs"`
	// String overrides the default text rendering
	String string  `yaml:"string"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// WorkspaceOnly blocks need a rendered workspace and cannot be created headless
	WorkspaceOnly bool `yaml:"workspace_only"`
}

type defsFile struct {
	Blocks []BlockDef `yaml:"blocks"`
}

// ParseBlockDefs decodes a YAML definitions document keyed by block type
func ParseBlockDefs(data []byte) (map[string]BlockDef, error) {
	var f defsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse block definitions: %w", err)
	}

	defs := make(map[string]BlockDef, len(f.Blocks))
	for i, d := range f.Blocks {
		if d.Type == "" {
			return nil, fmt.Errorf("block definition %d has no type", i)
		}
		if d.Width <= 0 {
			d.Width = defaultBlockWidth
		}
		if d.Height <= 0 {
			d.Height = defaultBlockHeight
		}
		defs[d.Type] = d
	}
	return defs, nil
}

// loadSources reads the toolbox and definitions, falling back to the embedded defaults
func loadSources(toolboxPath, blocksPath string) (*host.Element, map[string]BlockDef, error) {
	toolboxData := defaultToolbox
	if toolboxPath != "" {
		data, err := os.ReadFile(toolboxPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read toolbox: %w", err)
		}
		toolboxData = data
	}
	blocksData := defaultBlocks
	if blocksPath != "" {
		data, err := os.ReadFile(blocksPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read block definitions: %w", err)
		}
		blocksData = data
	}

	toolbox, err := host.ParseToolbox(bytes.NewReader(toolboxData))
	if err != nil {
		return nil, nil, err
	}
	defs, err := ParseBlockDefs(blocksData)
	if err != nil {
		return nil, nil, err
	}
	return toolbox, defs, nil
}
