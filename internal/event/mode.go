package event

import "fmt"

// Mode is the exclusive UI state. It decides focus and layout.
type Mode int

const (
	ModeConnectionMenu Mode = iota
	ModeEditQuery
	ModeExploreResults
	ModeExploreTables
	ModeExploreStructure
	ModeExploreSchemas
)

var modeNames = []string{
	"ConnectionMenu",
	"EditQuery",
	"ExploreResults",
	"ExploreTables",
	"ExploreStructure",
	"ExploreSchemas",
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, len(modeNames))
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts the names printed by String.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText lets modes key TOML tables.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
