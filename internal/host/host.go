// Package host describes the block editor the palette drives.
//
// Only the page worker talks to a host; the UI never does.
package host

import "errors"

var (
	// ErrUnknownBlockType is returned when a document cannot instantiate a block type
	ErrUnknownBlockType = errors.New("unknown block type")
	// ErrNoWorkspace is returned when the host has no active on-screen document
	ErrNoWorkspace = errors.New("no main workspace")
	// ErrDisposed is returned when a disposed document is used
	ErrDisposed = errors.New("document disposed")
)

// ToolboxID is the element id of the toolbox root in the host page
const ToolboxID = "toolbox"

// Engine is the host application as seen from the page context
type Engine interface {
	// Present reports whether the host engine has been loaded
	Present() bool
	// ElementByID looks up an element of the host page, nil when absent
	ElementByID(id string) *Element
	// NewHeadlessDocument creates an invisible throwaway document
	NewHeadlessDocument() (Document, error)
	// MainDocument returns the document currently on screen
	MainDocument() (Document, bool)
	// HideChaff dismisses transient host overlays (menus, tooltips, flyouts)
	HideChaff()
	// Alert shows a blocking notification to the user
	Alert(message string)
}

// Metrics describe the visible part of a document
type Metrics struct {
	ViewLeft   float64
	ViewTop    float64
	ViewWidth  float64
	ViewHeight float64
}

// Center returns the middle of the visible viewport
func (m Metrics) Center() (x, y float64) {
	return m.ViewLeft + m.ViewWidth/2, m.ViewTop + m.ViewHeight/2
}

// Document is one instance of the host's block model
type Document interface {
	NewBlock(blockType string) (Block, error)
	Metrics() Metrics
	Dispose()
}

// Field is a single element of an input row
type Field struct {
	Text    string
	Visible bool
}

// Input is one row of a block
type Input struct {
	Name   string
	Fields []Field
}

// Block is an instantiated block
type Block interface {
	Type() string
	Inputs() []Input
	// String is the host's default text rendering of the block
	String() string
	Size() (width, height float64)
	MoveBy(dx, dy float64)
	Select()
	Dispose()
}
