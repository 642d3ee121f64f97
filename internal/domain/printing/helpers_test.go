package printing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newDoc(t *testing.T, id string, pt PrintType, size PaperSize, pages int) FileSpec {
	t.Helper()
	f, err := NewFileSpec(FileSpecInput{
		ID:        id,
		Name:      id + ".pdf",
		Kind:      FileKindDocument,
		PageCount: intPtr(pages),
		Copies:    1,
		PrintType: pt,
		PaperSize: size,
	})
	require.NoError(t, err)
	return f
}

func newImage(t *testing.T, id string, pt PrintType, size PaperSize, layout LayoutKind) FileSpec {
	t.Helper()
	f, err := NewFileSpec(FileSpecInput{
		ID:        id,
		Name:      id + ".jpg",
		Kind:      FileKindImage,
		Copies:    1,
		PrintType: pt,
		PaperSize: size,
		Layout:    &ImageLayout{Kind: layout, FitMode: FitModeFit},
	})
	require.NoError(t, err)
	return f
}

func newOnlinePrinter(id string, caps ...Capability) Printer {
	return Printer{
		ID:           id,
		Name:         "Printer " + id,
		Status:       PrinterStatusOnline,
		Capabilities: MustCapabilitySet(caps...),
	}
}
