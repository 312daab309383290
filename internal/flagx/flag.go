// Package flagx helps packages parse their own command-line flags
// without tripping over flags owned by other packages.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Pick returns only the arguments that name one of the given flags.
// When a flag's value is supplied as the following argument
// ("-d postgres") the value is kept too; the "-d=postgres" form is
// kept as a single argument. Everything else is dropped, so a flag
// set parsing the result never sees flags it does not define.
func Pick(args []string, names ...string) []string {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if eq := strings.IndexByte(arg, '='); eq > 0 && strings.HasPrefix(arg, "-") {
			if _, ok := wanted[arg[:eq]]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := wanted[arg]; !ok {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFilePath extracts the config file path from -c / -config in
// os.Args, ignoring every other argument. Returns "" when absent.
func ConfigFilePath() string {
	var path string

	fs := flag.NewFlagSet("configfile", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Pick(os.Args[1:], "-c", "-config"))

	return path
}
