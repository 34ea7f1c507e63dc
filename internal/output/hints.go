package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":            {"login redeem <link>", "login sso"},
	"login redeem":     {"whoami", "workspace list"},
	"login sso":        {"whoami", "workspace list"},
	"logout":           {"login"},
	"whoami":           {"workspace list", "logout"},
	"workspace list":   {"workspace switch <id>", "workspace create <name>"},
	"workspace create": {"workspace switch <id>"},
	"workspace switch": {"whoami"},
	"config":           {"login"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "nullslot " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
