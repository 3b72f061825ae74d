package flags

import (
	"flag"
	"strings"

	"github.com/urfave/cli"
)

// eachName calls fn for the long name and every alias of a "name, n" flag.
func eachName(longName string, fn func(string)) {
	for _, name := range strings.Split(longName, ",") {
		if name = strings.TrimSpace(name); name != "" {
			fn(name)
		}
	}
}

// nameHelp returns the help form of a single flag name.
func nameHelp(name string) string {
	if len(name) == 1 {
		return "-" + name + " value"
	}
	return "--" + name + " value"
}

// helpLine formats a value flag for the command help.
func helpLine(longName, usage string) string {
	var names []string
	eachName(longName, func(n string) {
		names = append(names, nameHelp(n))
	})
	return strings.Join(names, ", ") + "\t" + usage
}

// applyValue registers v under every name of the flag.
func applyValue(set *flag.FlagSet, longName, usage string, v flag.Value) {
	eachName(longName, func(n string) {
		set.Var(v, n, usage)
	})
}

// MarkRequired returns a copy of flagSet with the named flags made required.
// Flags of types without the Required field are left as is.
func MarkRequired(flagSet []cli.Flag, names ...string) []cli.Flag {
	required := make(map[string]bool, len(names))
	for _, n := range names {
		required[n] = true
	}
	res := make([]cli.Flag, len(flagSet))
	for i, fl := range flagSet {
		if required[fl.GetName()] {
			fl = setRequired(fl)
		}
		res[i] = fl
	}
	return res
}

func setRequired(fl cli.Flag) cli.Flag {
	switch f := fl.(type) {
	case cli.StringFlag:
		f.Required = true
		return f
	case cli.StringSliceFlag:
		f.Required = true
		return f
	case cli.IntFlag:
		f.Required = true
		return f
	case cli.Int64Flag:
		f.Required = true
		return f
	case cli.UintFlag:
		f.Required = true
		return f
	case cli.BoolFlag:
		f.Required = true
		return f
	}
	return fl
}
