package model

// PairKey identifies an unordered node pair. A <= B always holds, so (a, b) and
// (b, a) produce the same key.
type PairKey struct {
	A string
	B string
}

func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// Loop reports whether the pair would be a self-loop.
func (k PairKey) Loop() bool {
	return k.A == k.B
}

// Has reports whether id is one of the endpoints.
func (k PairKey) Has(id string) bool {
	return k.A == id || k.B == id
}

type Edge struct {
	Source          string `json:"source" yaml:"source" validate:"required"`
	Target          string `json:"target" yaml:"target" validate:"required,nefield=Source"`
	Weight          int    `json:"weight" yaml:"weight" validate:"gte=0"`
	LastInteraction string `json:"last_interaction" yaml:"last_interaction"`
	RelationType    string `json:"relation_type" yaml:"relation_type"`
	// Manual marks edges the user created or relabelled. Derivation keeps them
	// even when no event connects the pair.
	Manual bool `json:"manual,omitempty" yaml:"manual,omitempty"`
}

func (e Edge) Key() PairKey {
	return NewPairKey(e.Source, e.Target)
}

// Canonical returns a copy of e with Source <= Target.
func (e Edge) Canonical() Edge {
	k := e.Key()
	e.Source, e.Target = k.A, k.B
	return e
}

// Touches reports whether id is an endpoint of e.
func (e Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}
