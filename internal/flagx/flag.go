// Package flagx lets several configuration layers read their own flags from
// os.Args without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// DefaultEnvFile is loaded when no -env-file flag is given.
const DefaultEnvFile = ".env"

// FilterArgs keeps only the allowed flags of args together with their values.
// Both "-f value" and "-f=value" forms are recognised. A value is only taken
// from the next argument when that argument does not start with a dash.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// lookupString parses a single string flag known under several names.
// The last occurrence wins.
func lookupString(names []string, def string) string {
	value := def

	allowed := make([]string, 0, len(names))
	for _, n := range names {
		allowed = append(allowed, "-"+n)
	}

	fs := flag.NewFlagSet("flagx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		fs.StringVar(&value, n, def, "")
	}
	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))

	return value
}

// JsonConfigFlags returns the JSON config path given with -c or -config,
// or an empty string.
func JsonConfigFlags() string {
	return lookupString([]string{"c", "config"}, "")
}

// EnvFileFlag returns the dotenv path given with -env-file, or DefaultEnvFile.
func EnvFileFlag() string {
	return lookupString([]string{"env-file"}, DefaultEnvFile)
}
