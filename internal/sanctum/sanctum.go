// Package sanctum enforces the three-layer access topology: kernel imports
// nothing, core imports only kernel, interface imports only core, and nothing
// imports interface. CheckImport is the event-driven guard; analyzer.go walks
// source trees for CI. The compiler's internal-package visibility is the
// other half of the enforcement; this package catches the edges visibility
// cannot express.
package sanctum

import (
	"strings"
	"sync"

	dErrors "sanctum/pkg/domain-errors"
)

// Layer is one of the three rings of the topology.
type Layer int

const (
	// LayerUnknown marks packages outside the topology. Never checked.
	LayerUnknown Layer = iota
	LayerKernel
	LayerCore
	LayerInterface
)

func (l Layer) String() string {
	switch l {
	case LayerKernel:
		return "kernel"
	case LayerCore:
		return "core"
	case LayerInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// layerPrefixes maps import path fragments to layers. Longest fragment wins
// is not needed: the fragments are disjoint.
var layerPrefixes = []struct {
	fragment string
	layer    Layer
}{
	{"internal/kernel", LayerKernel},
	{"internal/core", LayerCore},
	{"internal/adapters", LayerInterface},
}

// allowed is the fixed import allow-list, indexed [from][to]. Same layer is
// always allowed and handled before the lookup.
var allowed = map[Layer]map[Layer]bool{
	LayerKernel:    {},
	LayerCore:      {LayerKernel: true},
	LayerInterface: {LayerCore: true},
}

// Classify maps an import path (or module-relative package path) to its
// layer. Paths outside the topology classify as LayerUnknown.
func Classify(path string) Layer {
	for _, p := range layerPrefixes {
		if strings.Contains(path, p.fragment) {
			return p.layer
		}
	}
	return LayerUnknown
}

// Enforcer checks import edges and keeps an append-only violation log.
type Enforcer struct {
	mu         sync.Mutex
	violations []string
}

// NewEnforcer builds an enforcer with an empty log.
func NewEnforcer() *Enforcer {
	return &Enforcer{}
}

// CheckImport validates one import edge, from importer to imported. A
// disallowed edge returns a sanctum violation and is appended to the log;
// same-layer and unclassified edges always pass.
func (e *Enforcer) CheckImport(from, to string) error {
	fromLayer, toLayer := Classify(from), Classify(to)
	if fromLayer == LayerUnknown || toLayer == LayerUnknown {
		return nil
	}
	if fromLayer == toLayer {
		return nil
	}
	if allowed[fromLayer][toLayer] {
		return nil
	}

	msg := violationString(from, fromLayer, to, toLayer)
	e.mu.Lock()
	e.violations = append(e.violations, msg)
	e.mu.Unlock()
	return dErrors.New(dErrors.CodeSanctum, msg)
}

// Violations returns a copy of the append-only violation log.
func (e *Enforcer) Violations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.violations))
	copy(out, e.violations)
	return out
}

func violationString(from string, fromLayer Layer, to string, toLayer Layer) string {
	return fromLayer.String() + " package " + from + " may not import " + toLayer.String() + " package " + to
}
