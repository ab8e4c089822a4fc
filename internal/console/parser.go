// Package console is the local operator panel: it turns typed lines into
// controller commands. It is the only command surface of the appliance.
package console

import (
	"regexp"
	"strings"
)

// Kind classifies an operator command.
type Kind int

const (
	KindUnknown Kind = iota
	KindStart
	KindStop
	KindSelect
	KindConfirm
	KindAcknowledge
	KindReserve
	KindStatus
	KindRecipes
	KindHelp
	KindQuit
)

// String returns the command name.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindStop:
		return "stop"
	case KindSelect:
		return "select"
	case KindConfirm:
		return "confirm"
	case KindAcknowledge:
		return "acknowledge"
	case KindReserve:
		return "reserve"
	case KindStatus:
		return "status"
	case KindRecipes:
		return "recipes"
	case KindHelp:
		return "help"
	case KindQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is one parsed operator line.
type Command struct {
	Kind     Kind
	RecipeID string // empty means the currently selected recipe
	Clock    string // HH:MM, reserve only
	Raw      string
}

type rule struct {
	regex *regexp.Regexp
	kind  Kind
}

// Parser matches operator input using keywords and simple patterns.
type Parser struct {
	rules []rule
}

// NewParser creates a keyword parser.
func NewParser() *Parser {
	return &Parser{rules: []rule{
		{regexp.MustCompile(`(?i)^(?:start|cook|go)(?:\s+(?P<recipe>[\w-]+))?$`), KindStart},
		{regexp.MustCompile(`(?i)^(?:stop|off|cancel)$`), KindStop},
		{regexp.MustCompile(`(?i)^(?:select|pick)\s+(?P<recipe>[\w-]+)$`), KindSelect},
		{regexp.MustCompile(`(?i)^(?:add|added|confirm|ingredients)$`), KindConfirm},
		{regexp.MustCompile(`(?i)^(?:ack|acknowledge|ok|done)$`), KindAcknowledge},
		{regexp.MustCompile(`(?i)^(?:reserve|at)\s+(?:(?P<recipe>[\w-]+)\s+)?(?P<clock>\d{1,2}:\d{2})$`), KindReserve},
		{regexp.MustCompile(`(?i)^(?:status|s)$`), KindStatus},
		{regexp.MustCompile(`(?i)^(?:recipes|list|ls)$`), KindRecipes},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), KindHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q)$`), KindQuit},
	}}
}

// Parse converts one input line into a command. Unmatched input yields KindUnknown.
func (p *Parser) Parse(line string) Command {
	trimmed := strings.Join(strings.Fields(line), " ")
	cmd := Command{Kind: KindUnknown, Raw: trimmed}
	if trimmed == "" {
		return cmd
	}
	for _, r := range p.rules {
		m := r.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		cmd.Kind = r.kind
		for i, name := range r.regex.SubexpNames() {
			switch name {
			case "recipe":
				cmd.RecipeID = strings.ToLower(m[i])
			case "clock":
				cmd.Clock = m[i]
			}
		}
		return cmd
	}
	return cmd
}

// Help is the command summary printed by "help".
const Help = `commands:
  start [recipe]          heat now (selected recipe if omitted)
  select <recipe>         choose a recipe while idle
  add                     confirm ingredients are in the pot
  reserve [recipe] HH:MM  finish cooking at the given time
  ack                     acknowledge a completed session
  stop                    cut power and reset
  status                  print the current snapshot
  recipes                 list the catalog
  quit                    shut down`
