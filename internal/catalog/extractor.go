// Package catalog derives the searchable block catalog from a live host.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"blockpalette/internal/domain"
	"blockpalette/internal/host"
	"blockpalette/internal/logging"
)

// ErrNoToolbox is returned when the host page has no toolbox element
var ErrNoToolbox = errors.New("toolbox not found")

// Categories whose content the host generates at runtime
var reservedCategories = map[string]bool{
	"VARIABLE":  true,
	"PROCEDURE": true,
}

// LabelResult is the outcome of synthesising one label. A failed
// instantiation still produces a usable label: the raw block type.
type LabelResult struct {
	Label    string
	Fallback bool
	Err      error
}

// Result is a finished scan
type Result struct {
	Catalog   domain.Catalog
	Fallbacks int
}

// Extractor walks the host toolbox
type Extractor struct {
	engine host.Engine
}

// NewExtractor creates an extractor for the given host
func NewExtractor(engine host.Engine) *Extractor {
	return &Extractor{engine: engine}
}

// Extract builds a catalog of every block in the toolbox. Individual blocks
// that cannot be instantiated are recorded under their raw type; only a
// failure of the whole procedure returns an error.
func (x *Extractor) Extract() (Result, error) {
	log := logging.NewLogger("catalog")

	if !x.engine.Present() {
		return Result{}, fmt.Errorf("host engine not loaded")
	}
	toolbox := x.engine.ElementByID(host.ToolboxID)
	if toolbox == nil {
		return Result{}, ErrNoToolbox
	}

	doc, err := x.engine.NewHeadlessDocument()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create headless document: %w", err)
	}
	defer doc.Dispose()

	var res Result
	res.Catalog = domain.Catalog{}
	for _, cat := range toolbox.ElementsByTagName("category") {
		if reservedCategories[cat.Attr("custom")] {
			continue
		}
		name := cat.Attr("name")

		for _, blk := range cat.ElementsByTagName("block") {
			blockType := blk.Attr("type")
			if blockType == "" {
				continue
			}

			lr := SynthesizeLabel(doc, blockType)
			if lr.Fallback {
				res.Fallbacks++
				log.Debugf("Label fallback for %s: %v", blockType, lr.Err)
			}
			res.Catalog = append(res.Catalog, domain.CatalogItem{
				ID:       blockType,
				Label:    lr.Label,
				Category: name,
			})
		}
	}

	log.Infof("Scanned %d blocks (%d fallback labels)", len(res.Catalog), res.Fallbacks)
	return res, nil
}

// SynthesizeLabel instantiates blockType in doc and joins the visible field
// texts of every input row. Blocks without visible text use the host's
// default rendering. The instance is disposed before returning.
func SynthesizeLabel(doc host.Document, blockType string) (res LabelResult) {
	defer func() {
		if r := recover(); r != nil {
			res = LabelResult{Label: blockType, Fallback: true, Err: fmt.Errorf("host panic: %v", r)}
		}
	}()

	block, err := doc.NewBlock(blockType)
	if err != nil {
		return LabelResult{Label: blockType, Fallback: true, Err: err}
	}
	defer block.Dispose()

	var parts []string
	for _, input := range block.Inputs() {
		for _, field := range input.Fields {
			if !field.Visible || strings.TrimSpace(field.Text) == "" {
				continue
			}
			parts = append(parts, field.Text)
		}
	}
	if len(parts) > 0 {
		return LabelResult{Label: strings.Join(parts, " ")}
	}
	return LabelResult{Label: block.String()}
}
