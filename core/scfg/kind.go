package scfg

// Kind names a grammar state. Every kind except W, BE and ZW owns one packed
// triangular table per fold.
type Kind int

const (
	KindW Kind = iota
	KindWI
	KindV
	KindVM
	KindWM
	KindWMv
	KindWMp
	KindWMB
	KindWMBP
	KindWMBW
	KindBE
	KindWIP
	KindVP
	KindVPL
	KindVPR
	KindZW

	NumKinds
)

var kindNames = [NumKinds]string{
	"W", "WI", "V", "VM", "WM", "WMv", "WMp", "WMB", "WMBP", "WMBW", "BE",
	"WIP", "VP", "VPL", "VPR", "ZW",
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Pseudoknotted reports whether the kind only carries crossing structure.
// These tables stay Zero in a pseudoknot-free fold.
func (k Kind) Pseudoknotted() bool {
	switch k {
	case KindWMB, KindWMBP, KindWMBW, KindBE, KindWIP, KindVP, KindVPL, KindVPR:
		return true
	}
	return false
}

// Tabled reports whether the kind owns an interval table.
func (k Kind) Tabled() bool {
	return k != KindW && k != KindBE && k != KindZW && k >= 0 && k < NumKinds
}
