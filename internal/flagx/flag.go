// Package flagx holds small helpers for sharing os.Args between several
// independent flag sets.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags listed in allowedFlags, together with their
// values, and drops everything else.
//
// Two spellings are recognised:
//
//	-d wallet.db        flag and value as separate tokens
//	--dsn=wallet.db     flag and value joined by '='
//
// A token that follows an allowed flag is treated as its value unless it
// starts with '-'. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
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

// ConfigFileFlag returns the path passed with -c or -config, or "" when
// neither is present. Other arguments are ignored, so callers can still parse
// their own flags from the same command line.
func ConfigFileFlag() string {
	return stringFlag([]string{"-c", "-config"}, "config", "c", "path to config file (JSON or YAML)")
}

// EnvFileFlag returns the path passed with -e or -env-file, or "".
func EnvFileFlag() string {
	return stringFlag([]string{"-e", "-env-file"}, "env-file", "e", "path to .env file")
}

func stringFlag(allowed []string, long, short, usage string) string {
	var v string

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&v, long, "", usage)
	fs.StringVar(&v, short, "", usage+" (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))

	return v
}
