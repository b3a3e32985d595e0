package query

// DocumentFields requests every field in template order.
type DocumentFields struct{}

func (DocumentFields) Type() string { return "policydoc:fields" }

func (DocumentFields) Validate() error { return nil }

// RenderedDocument requests the rendered document markup. Full selects the
// complete host document instead of the content root.
type RenderedDocument struct {
	Full bool
}

func (RenderedDocument) Type() string { return "policydoc:rendered" }

func (RenderedDocument) Validate() error { return nil }

// LastExport requests a summary of the latest successful export.
type LastExport struct{}

func (LastExport) Type() string { return "policydoc:export:last" }

func (LastExport) Validate() error { return nil }
