package easing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fogleman/ease"

	"github.com/ivlev/scene2frames/internal/errs"
)

var named = map[string]Func{
	"linear":      Linear,
	"ease":        Ease,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,

	// Penner curves without a parametric primitive here.
	"in-quart":     pin(ease.InQuart),
	"out-quart":    pin(ease.OutQuart),
	"in-out-quart": pin(ease.InOutQuart),
	"in-quint":     pin(ease.InQuint),
	"out-quint":    pin(ease.OutQuint),
	"in-out-quint": pin(ease.InOutQuint),
}

// primitives are expanded into "<name>", "in-<name>", "out-<name>" and
// "in-out-<name>" entries.
var primitives = map[string]Func{
	"quad":    Quad,
	"cubic":   Cubic,
	"sin":     Sin,
	"sine":    Sin,
	"circle":  Circle,
	"exp":     Exp,
	"back":    Back(DefaultBackOvershoot),
	"elastic": Elastic(1),
	"bounce":  Bounce,
}

// parametric primitives accept arguments: "back(1.2)", "out-poly(4)".
var parametric = map[string]func(args []float64) (Func, error){
	"back": func(args []float64) (Func, error) {
		if len(args) > 1 {
			return nil, fmt.Errorf("back takes at most 1 argument")
		}
		if len(args) == 0 {
			return Back(DefaultBackOvershoot), nil
		}
		return Back(args[0]), nil
	},
	"elastic": func(args []float64) (Func, error) {
		if len(args) > 1 {
			return nil, fmt.Errorf("elastic takes at most 1 argument")
		}
		if len(args) == 0 {
			return Elastic(1), nil
		}
		return Elastic(args[0]), nil
	},
	"poly": func(args []float64) (Func, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("poly takes exactly 1 argument")
		}
		return Poly(args[0]), nil
	},
	"bezier": func(args []float64) (Func, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("bezier takes exactly 4 arguments")
		}
		return Bezier(args[0], args[1], args[2], args[3]), nil
	},
}

func init() {
	for name, f := range primitives {
		named[name] = In(f)
		named["in-"+name] = In(f)
		named["out-"+name] = Out(f)
		named["in-out-"+name] = InOut(f)
	}
}

// Lookup resolves an easing by name. Besides the plain names returned by
// [Names], it accepts parametric forms such as "back(1.2)", "out-back(1.2)",
// "in-out-elastic(2)", "poly(4)" and "bezier(0.25, 0.1, 0.25, 1)".
// The empty name resolves to Linear.
func Lookup(name string) (Func, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Linear, nil
	}
	if f, ok := named[name]; ok {
		return f, nil
	}

	open := strings.IndexByte(name, '(')
	if open < 0 || !strings.HasSuffix(name, ")") {
		return nil, errs.Configf("easing.Lookup", "easing", errs.ErrUnknown, "%q", name)
	}

	head := strings.TrimSpace(name[:open])
	args, err := parseArgs(name[open+1 : len(name)-1])
	if err != nil {
		return nil, errs.Configf("easing.Lookup", "easing", errs.ErrInvalid, "%q: %v", name, err)
	}

	wrap := In
	switch {
	case strings.HasPrefix(head, "in-out-"):
		wrap, head = InOut, strings.TrimPrefix(head, "in-out-")
	case strings.HasPrefix(head, "out-"):
		wrap, head = Out, strings.TrimPrefix(head, "out-")
	case strings.HasPrefix(head, "in-"):
		head = strings.TrimPrefix(head, "in-")
	}

	build, ok := parametric[head]
	if !ok {
		return nil, errs.Configf("easing.Lookup", "easing", errs.ErrUnknown, "%q", name)
	}
	f, err := build(args)
	if err != nil {
		return nil, errs.Configf("easing.Lookup", "easing", errs.ErrInvalid, "%q: %v", name, err)
	}
	if head == "bezier" {
		// A bezier already encodes where it accelerates.
		if head != strings.TrimSpace(name[:open]) {
			return nil, errs.Configf("easing.Lookup", "easing", errs.ErrInvalid, "%q: bezier takes no in/out prefix", name)
		}
		return f, nil
	}
	return wrap(f), nil
}

// Names lists the non-parametric easing names accepted by [Lookup].
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseArgs(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	args := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q is not a number", strings.TrimSpace(p))
		}
		args = append(args, v)
	}
	return args, nil
}
