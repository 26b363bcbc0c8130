package main

import (
	"os"
	"strings"

	"stickies/internal/cli"
)

func isNoteID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "note-") && len(s) > len("note-")
}

// rewriteDirectNoteLookupArgs turns `stickies <note-id>` into
// `stickies notes show <note-id>`. Cobra treats the first positional token as a
// subcommand, so the rewrite happens before parsing and has to step over
// persistent flags given first.
func rewriteDirectNoteLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":      true,
		"--board":    true,
		"--format":   true,
		"--log-file": true,
	}

	insertAt := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "notes", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isNoteID(argv[i+1]) {
				return insertAt(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			// Unknown and boolean flags take no value here; --flag=value is one token.
			if valueFlags[a] {
				i++
			}
			continue
		case isNoteID(a):
			return insertAt(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteDirectNoteLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
