package fixedenergy

import (
	"fmt"

	"cparty/core/scfg"
)

// Slice selects how much of the grammar the parser enables.
type Slice int

const (
	SliceA Slice = iota // W, WI, V
	SliceB              // + VM, WM, WMv, WMp
	SliceC              // + WIP, VP, VPL, VPR
	SliceD              // + WMB, WMBP, WMBW, BE
)

// ParseSlice accepts "a".."d".
func ParseSlice(s string) (Slice, error) {
	switch s {
	case "a", "A":
		return SliceA, nil
	case "b", "B":
		return SliceB, nil
	case "c", "C":
		return SliceC, nil
	case "d", "D", "":
		return SliceD, nil
	}
	return 0, fmt.Errorf("unknown grammar slice %q (want a, b, c or d)", s)
}

func (s Slice) String() string { return string(rune('a' + int(s))) }

// Rule is a production of the deterministic grammar.
type Rule int

const (
	RuleWToWI Rule = iota
	RuleWIToV
	RuleEmpty
	RuleUnpaired
	RulePairWrapped
	RuleVMToWM
	RuleWMToWMv
	RuleWMvToWMp
	RuleWMpToWMB
	RuleWMBToWMBP
	RuleWMBPToWMBW
	RuleWMBWToBE
	RuleBEToWIP
	RuleWMpToWIP
	RuleWIPToVP
	RuleVPToVPL
	RuleVPLToVPR
	RuleVPRToV

	// diagnostic renames of the V rules
	RuleZWEmpty
	RuleZWUnpaired
	RuleZWPairWrapped
)

var ruleNames = [...]string{
	"W_TO_WI", "WI_TO_V", "V_EMPTY", "V_UNPAIRED", "V_PAIR_WRAPPED",
	"VM_TO_WM", "WM_TO_WMv", "WMv_TO_WMp", "WMp_TO_WMB", "WMB_TO_WMBP",
	"WMBP_TO_WMBW", "WMBW_TO_BE", "BE_TO_WIP", "WMp_TO_WIP", "WIP_TO_VP",
	"VP_TO_VPL", "VPL_TO_VPR", "VPR_TO_V",
	"ZW_EMPTY", "ZW_UNPAIRED", "ZW_PAIR_WRAPPED",
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return fmt.Sprintf("Rule(%d)", int(r))
	}
	return ruleNames[r]
}

// Score is the unit energy of a rule: -1 per closed pair, 0 otherwise.
func (r Rule) Score() float64 {
	if r == RulePairWrapped {
		return -1
	}
	return 0
}

// candidates lists the productions of a state kind under s.
func candidates(k scfg.Kind, s Slice) []Rule {
	switch k {
	case scfg.KindW:
		return []Rule{RuleWToWI}
	case scfg.KindWI:
		return []Rule{RuleWIToV}
	case scfg.KindV:
		return []Rule{RuleEmpty, RuleUnpaired, RulePairWrapped}
	case scfg.KindVM:
		return []Rule{RuleVMToWM}
	case scfg.KindWM:
		return []Rule{RuleWMToWMv}
	case scfg.KindWMv:
		return []Rule{RuleWMvToWMp}
	case scfg.KindWMp:
		switch {
		case s >= SliceD:
			return []Rule{RuleWMpToWMB}
		case s >= SliceC:
			return []Rule{RuleWMpToWIP}
		}
		return nil
	case scfg.KindWMB:
		return []Rule{RuleWMBToWMBP}
	case scfg.KindWMBP:
		return []Rule{RuleWMBPToWMBW}
	case scfg.KindWMBW:
		return []Rule{RuleWMBWToBE}
	case scfg.KindBE:
		return []Rule{RuleBEToWIP}
	case scfg.KindWIP:
		return []Rule{RuleWIPToVP}
	case scfg.KindVP:
		return []Rule{RuleVPToVPL}
	case scfg.KindVPL:
		return []Rule{RuleVPLToVPR}
	case scfg.KindVPR:
		return []Rule{RuleVPRToV}
	}
	return nil
}

func (r Rule) applies(st State, in *Input, s Slice) bool {
	switch r {
	case RuleWToWI, RuleWIToV:
		return true
	case RuleVMToWM, RuleWMToWMv, RuleWMvToWMp:
		return s >= SliceB
	case RuleWMpToWIP, RuleWIPToVP, RuleVPToVPL, RuleVPLToVPR, RuleVPRToV:
		return s >= SliceC
	case RuleWMpToWMB, RuleWMBToWMBP, RuleWMBPToWMBW, RuleWMBWToBE, RuleBEToWIP:
		return s >= SliceD
	case RuleEmpty:
		return st.I > st.J
	}
	if st.I > st.J {
		return false
	}
	switch r {
	case RuleUnpaired:
		return in.DB[st.I-1] == '.'
	case RulePairWrapped:
		c := in.DB[st.I-1]
		return (c == '(' || c == '[') && in.Partner(st.I) == st.J
	}
	return false
}

// expand returns the children of st under r, leftmost first.
func (r Rule) expand(st State, s Slice) []State {
	same := func(k scfg.Kind) []State { return []State{{Kind: k, I: st.I, J: st.J}} }
	switch r {
	case RuleWToWI:
		return same(scfg.KindWI)
	case RuleWIToV, RuleVPRToV:
		return same(scfg.KindV)
	case RuleUnpaired:
		return []State{{Kind: scfg.KindV, I: st.I + 1, J: st.J}}
	case RulePairWrapped:
		if s >= SliceB {
			return []State{{Kind: scfg.KindVM, I: st.I + 1, J: st.J - 1}}
		}
		return []State{{Kind: scfg.KindV, I: st.I + 1, J: st.J - 1}}
	case RuleVMToWM:
		return same(scfg.KindWM)
	case RuleWMToWMv:
		return same(scfg.KindWMv)
	case RuleWMvToWMp:
		return same(scfg.KindWMp)
	case RuleWMpToWMB:
		return same(scfg.KindWMB)
	case RuleWMBToWMBP:
		return same(scfg.KindWMBP)
	case RuleWMBPToWMBW:
		return same(scfg.KindWMBW)
	case RuleWMBWToBE:
		return same(scfg.KindBE)
	case RuleBEToWIP, RuleWMpToWIP:
		return same(scfg.KindWIP)
	case RuleWIPToVP:
		return same(scfg.KindVP)
	case RuleVPToVPL:
		return same(scfg.KindVPL)
	case RuleVPLToVPR:
		return same(scfg.KindVPR)
	}
	return nil
}
