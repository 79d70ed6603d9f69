package catalog

import (
	"errors"
	"strings"

	"blockpalette/internal/host"
)

// fakeEngine serves a fixed toolbox and hands out fakeDocuments
type fakeEngine struct {
	present bool
	toolbox *host.Element
	doc     *fakeDocument
	docErr  error
}

func (e *fakeEngine) Present() bool { return e.present }

func (e *fakeEngine) ElementByID(id string) *host.Element {
	return e.toolbox.ElementByID(id)
}

func (e *fakeEngine) NewHeadlessDocument() (host.Document, error) {
	if e.docErr != nil {
		return nil, e.docErr
	}
	return e.doc, nil
}

func (e *fakeEngine) MainDocument() (host.Document, bool) { return nil, false }
func (e *fakeEngine) HideChaff()                          {}
func (e *fakeEngine) Alert(string)                        {}

type fakeDocument struct {
	blocks   map[string]*fakeBlock
	panics   map[string]bool
	created  int
	disposed bool
}

func (d *fakeDocument) NewBlock(blockType string) (host.Block, error) {
	if d.panics[blockType] {
		panic("renderer exploded")
	}
	b, ok := d.blocks[blockType]
	if !ok {
		return nil, host.ErrUnknownBlockType
	}
	d.created++
	b.disposed = false
	return b, nil
}

func (d *fakeDocument) Metrics() host.Metrics { return host.Metrics{} }
func (d *fakeDocument) Dispose()              { d.disposed = true }

type fakeBlock struct {
	typ      string
	inputs   []host.Input
	str      string
	disposed bool
}

func (b *fakeBlock) Type() string             { return b.typ }
func (b *fakeBlock) Inputs() []host.Input     { return b.inputs }
func (b *fakeBlock) String() string           { return b.str }
func (b *fakeBlock) Size() (float64, float64) { return 0, 0 }
func (b *fakeBlock) MoveBy(float64, float64)  {}
func (b *fakeBlock) Select()                  {}
func (b *fakeBlock) Dispose()                 { b.disposed = true }

func row(texts ...string) host.Input {
	in := host.Input{}
	for _, t := range texts {
		visible := !strings.HasPrefix(t, "~")
		in.Fields = append(in.Fields, host.Field{Text: strings.TrimPrefix(t, "~"), Visible: visible})
	}
	return in
}

func mustToolbox(xml string) *host.Element {
	root, err := host.ParseToolbox(strings.NewReader(xml))
	if err != nil {
		panic(err)
	}
	return root
}

var errDocument = errors.New("no headless support")
