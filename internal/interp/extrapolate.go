package interp

import (
	"strings"

	"github.com/ivlev/scene2frames/internal/errs"
)

// Extrapolate controls what a curve does with inputs outside its breakpoints.
type Extrapolate string

const (
	// Extend continues the boundary segment's formula. It is the default.
	Extend Extrapolate = "extend"
	// Clamp pins the input to the nearest breakpoint.
	Clamp Extrapolate = "clamp"
	// Identity returns the input unchanged.
	Identity Extrapolate = "identity"
	// Wrap folds the input back into the boundary segment.
	Wrap Extrapolate = "wrap"
)

// ParseExtrapolate validates a policy name. The empty string means Extend.
func ParseExtrapolate(s string) (Extrapolate, error) {
	switch e := Extrapolate(strings.ToLower(strings.TrimSpace(s))); e {
	case "":
		return Extend, nil
	case Extend, Clamp, Identity, Wrap:
		return e, nil
	}
	return "", errs.Configf("interp.ParseExtrapolate", "extrapolate", errs.ErrUnknown, "%q", s)
}

func (e *Extrapolate) UnmarshalText(text []byte) error {
	v, err := ParseExtrapolate(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e Extrapolate) valid() bool {
	switch e {
	case "", Extend, Clamp, Identity, Wrap:
		return true
	}
	return false
}
