package console

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Action is one menu entry.
type Action int

const (
	ActionNone Action = iota
	ActionConstruct
	ActionDemolish
	ActionPrint
	ActionPrintReverse
	ActionPrintExpanded
	ActionPrintExpandedReverse
	ActionStock
	ActionExit
)

type commandDef struct {
	action  Action
	label   string
	aliases []string
}

var commands = []commandDef{
	{ActionConstruct, "Construct a new building on the colony", []string{"construct", "build", "add"}},
	{ActionDemolish, "Destruct/Disassemble a building from the colony", []string{"demolish", "destruct", "destroy", "remove"}},
	{ActionPrint, "Print the colony", []string{"print", "show", "colony"}},
	{ActionPrintReverse, "Print the colony in reverse", []string{"reverse"}},
	{ActionPrintExpanded, "Print the colony while showing inner empty blocks", []string{"expanded", "expand", "blocks"}},
	{ActionPrintExpandedReverse, "Print the colony while showing inner empty blocks in reverse", []string{"expanded-reverse", "blocks-reverse"}},
	{ActionStock, "Print the stock", []string{"stock", "resources"}},
	{ActionExit, "Exit", []string{"exit", "quit", "q"}},
}

// Resolve maps a menu token to an action: the menu number, an alias, or an
// alias within a small edit distance when exactly one alias is closest.
func Resolve(token string) Action {
	tok := strings.ToLower(strings.TrimSpace(token))
	if tok == "" {
		return ActionNone
	}
	if len(tok) == 1 && tok[0] >= '1' && tok[0] <= '8' {
		return Action(tok[0] - '0')
	}
	for _, c := range commands {
		for _, a := range c.aliases {
			if tok == a {
				return c.action
			}
		}
	}
	if len(tok) < 3 {
		return ActionNone
	}

	type cand struct {
		action Action
		dist   int
	}
	var cands []cand
	for _, c := range commands {
		best := -1
		for _, a := range c.aliases {
			if len(a) < 3 {
				continue
			}
			d := levenshtein.ComputeDistance(tok, a)
			if d > levenshteinLimit(len(a)) {
				continue
			}
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 {
			cands = append(cands, cand{c.action, best})
		}
	}
	if len(cands) == 0 {
		return ActionNone
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if len(cands) > 1 && cands[0].dist == cands[1].dist {
		return ActionNone
	}
	return cands[0].action
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
