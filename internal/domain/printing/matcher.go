package printing

// Satisfies reports whether a printer can print the file.
//
// Duplex requests only need the printer to advertise "duplex" or
// "single-sided"; long-edge and short-edge requests are not told apart.
func Satisfies(p Printer, f FileSpec) bool {
	if !p.IsOnline() {
		return false
	}
	if !p.Capabilities.HasAll(f.PrintType().Capability(), f.PaperSize().Capability()) {
		return false
	}
	if f.Duplex().IsOneSided() {
		return true
	}
	return p.Capabilities.Has(CapabilityDuplex) || p.Capabilities.Has(CapabilitySingleSided)
}

// SatisfiesAll reports whether one printer can print every file
func SatisfiesAll(p Printer, files []FileSpec) bool {
	for _, f := range files {
		if !Satisfies(p, f) {
			return false
		}
	}
	return true
}

// CompatiblePrinters filters the pool to printers that can print every file,
// keeping pool order
func CompatiblePrinters(pool PrinterPool, files []FileSpec) PrinterPool {
	out := make(PrinterPool, 0, len(pool))
	for _, p := range pool {
		if SatisfiesAll(p, files) {
			out = append(out, p)
		}
	}
	return out
}
