package parser

import (
	"github.com/FGDES/pdsynth/automaton"
	"github.com/FGDES/pdsynth/lr1"
	"github.com/FGDES/pdsynth/symtab"
)

// ConfigStack is the parser's runtime stack: a sequence of basis-state
// ids, bottom to top.
type ConfigStack struct {
	States []automaton.Idx
}

func (c *ConfigStack) top() automaton.Idx { return c.States[len(c.States)-1] }

// Drive runs p (the pre-transform parser returned by Lrp/DetachAugSymbol)
// over word, reporting whether it is accepted. Grounded on the
// stack/ACTION-lookup idiom of github.com/npillmayer/gorgo/lr/slr/slr.go's
// Parser.Parse, adapted to scan the flat Actions list directly rather
// than a dense ACTION table, since Lrp does not build one.
func Drive(p *Parser, word []symtab.Idx) bool {
	stack := &ConfigStack{States: []automaton.Idx{p.Start}}
	i := 0
	steps := 0
	maxSteps := (len(word) + len(p.Actions) + 1) * (len(p.Actions) + 1)
	for {
		steps++
		if steps > maxSteps {
			return false // no progress: reject rather than loop forever
		}
		next := lr1.EndOfInput
		if i < len(word) {
			next = word[i]
		}
		act, ok := findAction(p, stack.States, next)
		if !ok {
			return false
		}
		if act.Prod == nil { // shift
			stack.States = append(stack.States, act.Rhs.Stack[len(act.Rhs.Stack)-1])
			i++
			continue
		}
		// reduce: replace the matched suffix (everything but the
		// action's leading state) with goto(q, Lhs)
		k := len(act.Lhs.Stack) - 1
		stack.States = stack.States[:len(stack.States)-k]
		stack.States = append(stack.States, act.Rhs.Stack[len(act.Rhs.Stack)-1])
		if i >= len(word) && p.Final[stack.top()] {
			return true
		}
	}
}

func findAction(p *Parser, stack []automaton.Idx, next symtab.Idx) (Action, bool) {
	for _, act := range p.Actions {
		if act.Lhs.Next != next {
			continue
		}
		n := len(act.Lhs.Stack)
		if n > len(stack) {
			continue
		}
		suffix := stack[len(stack)-n:]
		match := true
		for i := range suffix {
			if suffix[i] != act.Lhs.Stack[i] {
				match = false
				break
			}
		}
		if match {
			return act, true
		}
	}
	return Action{}, false
}
