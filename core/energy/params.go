// core/energy/params.go
// Nearest-neighbour parameter set. Units: dcal/mol (1/100 kcal/mol) for every
// integer table; e_stP and e_intP are dimensionless band scaling factors.
//
// Tables are 1-indexed by pair type (see PairType) after subtracting one, and
// dangles are indexed by base code (0 = no base, 1..4 = A C G U).

package energy

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Inf is the forbidden-energy sentinel in dcal/mol.
const Inf = 10000000

// RT is the gas constant times 310.15 K, kcal/mol.
const RT = 0.61632

// MaxTable is the largest loop size with a tabulated value.
const MaxTable = 30

//go:embed turner2004.yaml
var builtinYAML []byte

// DCal is an energy in dcal/mol. In YAML it is an integer or the string INF.
type DCal int

// UnmarshalYAML accepts integers and INF.
func (d *DCal) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("energy value at line %d: expected scalar", n.Line)
	}
	if strings.EqualFold(n.Value, "INF") {
		*d = Inf
		return nil
	}
	var v int
	if err := n.Decode(&v); err != nil {
		return fmt.Errorf("energy value at line %d: %w", n.Line, err)
	}
	*d = DCal(v)
	return nil
}

// MultiLoop holds the linear multiloop model.
type MultiLoop struct {
	Closing DCal `yaml:"closing"`
	Intern  DCal `yaml:"intern"`
	Base    DCal `yaml:"base"`
}

// Ninio holds the asymmetric interior-loop correction.
type Ninio struct {
	PerNT DCal `yaml:"per_nt"`
	Max   DCal `yaml:"max"`
}

// Pseudoknot holds the pseudoloop penalties.
type Pseudoknot struct {
	PS    DCal    `yaml:"ps"`  // exterior pseudoloop initiation
	PSM   DCal    `yaml:"psm"` // pseudoloop inside a multiloop
	PSP   DCal    `yaml:"psp"` // pseudoloop inside a pseudoloop
	PB    DCal    `yaml:"pb"`  // per band
	PUP   DCal    `yaml:"pup"` // unpaired base in a pseudoloop
	PPS   DCal    `yaml:"pps"` // nested pair in a pseudoloop
	A     DCal    `yaml:"a"`
	B     DCal    `yaml:"b"` // pseudoloop branch in a multiloop
	C     DCal    `yaml:"c"`
	AP    DCal    `yaml:"ap"` // multiloop spanning a band
	BP    DCal    `yaml:"bp"` // branch in a band-spanning multiloop
	CP    DCal    `yaml:"cp"` // unpaired base in a band-spanning multiloop
	EStP  float64 `yaml:"e_stp"`
	EIntP float64 `yaml:"e_intp"`
}

// Params is a full parameter set.
type Params struct {
	Name        string     `yaml:"name"`
	Temperature float64    `yaml:"temperature"`
	MaxLoop     int        `yaml:"max_loop"`
	Stack       [][]DCal   `yaml:"stack"`
	Hairpin     []DCal     `yaml:"hairpin"`
	Bulge       []DCal     `yaml:"bulge"`
	Interior    []DCal     `yaml:"interior"`
	Dangle5     [][]DCal   `yaml:"dangle5"`
	Dangle3     [][]DCal   `yaml:"dangle3"`
	MultiLoop   MultiLoop  `yaml:"multiloop"`
	Ninio       Ninio      `yaml:"ninio"`
	TerminalAU  DCal       `yaml:"terminal_au"`
	LXC         float64    `yaml:"lxc"`
	Pseudoknot  Pseudoknot `yaml:"pseudoknot"`
}

var errShape = errors.New("energy: malformed parameter table")

// Parse decodes and checks a YAML parameter set.
func Parse(data []byte) (*Params, error) {
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("energy: decode parameters: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Builtin returns the embedded parameter set.
func Builtin() (*Params, error) { return Parse(builtinYAML) }

func (p *Params) validate() error {
	if len(p.Stack) != numPairTypes {
		return fmt.Errorf("%w: stack has %d rows, want %d", errShape, len(p.Stack), numPairTypes)
	}
	for r, row := range p.Stack {
		if len(row) != numPairTypes {
			return fmt.Errorf("%w: stack row %d has %d columns", errShape, r+1, len(row))
		}
	}
	for name, tab := range map[string][]DCal{"hairpin": p.Hairpin, "bulge": p.Bulge, "interior": p.Interior} {
		if len(tab) != MaxTable+1 {
			return fmt.Errorf("%w: %s has %d entries, want %d", errShape, name, len(tab), MaxTable+1)
		}
	}
	for name, tab := range map[string][][]DCal{"dangle5": p.Dangle5, "dangle3": p.Dangle3} {
		if len(tab) != numPairTypes {
			return fmt.Errorf("%w: %s has %d rows", errShape, name, len(tab))
		}
		for r, row := range tab {
			if len(row) != 5 {
				return fmt.Errorf("%w: %s row %d has %d columns", errShape, name, r+1, len(row))
			}
		}
	}
	if p.MaxLoop <= 0 {
		p.MaxLoop = MaxTable
	}
	return nil
}
