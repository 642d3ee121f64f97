package printing

import (
	"strings"

	"github.com/printease/backend/internal/domain/shared"
)

// CategoryKey identifies the rotation bucket of unbound files
type CategoryKey struct {
	PrintType PrintType
	PaperSize PaperSize
}

// String returns the key as "<printType>-<paperSize>", e.g. "bw-A4"
func (k CategoryKey) String() string {
	return string(k.PrintType) + "-" + string(k.PaperSize)
}

// ParseCategoryKey parses the String form of a key
func ParseCategoryKey(s string) (CategoryKey, error) {
	pt, size, ok := strings.Cut(s, "-")
	key := CategoryKey{PrintType: PrintType(pt), PaperSize: PaperSize(size)}
	if !ok || !key.PrintType.IsValid() || !key.PaperSize.IsValid() {
		return CategoryKey{}, shared.NewDomainError("INVALID_CATEGORY", "Invalid category key: "+s)
	}
	return key, nil
}

// ClusterKind distinguishes the bound cluster from category clusters
type ClusterKind string

const (
	ClusterBound    ClusterKind = "bound"
	ClusterCategory ClusterKind = "category"
)

// JobCluster is a group of files that must go to one printer
type JobCluster struct {
	Kind    ClusterKind
	Key     CategoryKey // zero for the bound cluster
	Binding BindingMode // none for category clusters
	Files   []FileSpec
}

// Label names the cluster in failures and logs
func (c JobCluster) Label() string {
	if c.Kind == ClusterBound {
		return string(ClusterBound)
	}
	return c.Key.String()
}

// HasDocument reports whether any file in the cluster is a document
func (c JobCluster) HasDocument() bool {
	for _, f := range c.Files {
		if f.IsDocument() {
			return true
		}
	}
	return false
}

// Composition is the result of splitting an order into clusters
type Composition struct {
	Bound      *JobCluster
	Categories []JobCluster
}

// Clusters returns every cluster in processing order: bound first,
// then categories in first-seen order
func (c Composition) Clusters() []JobCluster {
	out := make([]JobCluster, 0, len(c.Categories)+1)
	if c.Bound != nil {
		out = append(out, *c.Bound)
	}
	return append(out, c.Categories...)
}

// Compose splits files into at most one bound cluster and one cluster per
// (print type, paper size). selector uses page-range syntax over the
// 1-indexed positions of files and is ignored when binding is none.
// Every file ends up in exactly one cluster.
func Compose(files []FileSpec, binding BindingMode, selector string) Composition {
	bound := make(map[int]bool)
	if binding.IsBound() {
		for _, idx := range ParsePageRanges(selector, len(files)) {
			bound[idx] = true
		}
	}

	var comp Composition
	index := make(map[CategoryKey]int)
	for i, f := range files {
		if bound[i] {
			if comp.Bound == nil {
				comp.Bound = &JobCluster{Kind: ClusterBound, Binding: binding}
			}
			comp.Bound.Files = append(comp.Bound.Files, f)
			continue
		}
		key := f.CategoryKey()
		pos, ok := index[key]
		if !ok {
			pos = len(comp.Categories)
			index[key] = pos
			comp.Categories = append(comp.Categories, JobCluster{Kind: ClusterCategory, Key: key, Binding: BindingNone})
		}
		comp.Categories[pos].Files = append(comp.Categories[pos].Files, f)
	}
	return comp
}

// MarshalText encodes the key in its String form
func (k CategoryKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a key from its String form
func (k *CategoryKey) UnmarshalText(text []byte) error {
	parsed, err := ParseCategoryKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
