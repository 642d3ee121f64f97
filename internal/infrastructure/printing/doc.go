// Package printing renders order receipts as PDF documents with gofpdf.
//
// Example usage:
//
//	renderer := NewReceiptPDFRenderer(ReceiptPDFConfig{ShopName: "PrintEase"})
//	data, err := renderer.Render(ctx, receipt)
//	if err != nil {
//	    return err
//	}
package printing
