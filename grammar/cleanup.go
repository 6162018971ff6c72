package grammar

// Rnpp1 returns ntSet extended by every nonterminal that can be derived
// in one additional step, assuming every nonterminal in ntSet has already
// been shown productive (derives some terminal string), §4.9 cleanup
// pass. Grounded on
// original_source/plugins/pushdown/src/pd_alg_sub.h's Rnpp1/Rnppl.
func Rnpp1(g *Grammar, ntSet map[string]bool) map[string]bool {
	out := make(map[string]bool, len(ntSet))
	for k := range ntSet {
		out[k] = true
	}
	for _, p := range g.Productions() {
		if out[p.Lhs.Key()] {
			continue
		}
		productive := true
		for _, s := range p.Rhs {
			if s.IsTerminal() {
				continue
			}
			if !out[s.Nonterminal.Key()] {
				productive = false
				break
			}
		}
		if productive {
			out[p.Lhs.Key()] = true
		}
	}
	return out
}

// Rnppl iterates Rnpp1 to a fixpoint: the set of every nonterminal
// eliminable in as many steps as needed.
func Rnppl(g *Grammar) map[string]bool {
	set := map[string]bool{}
	for {
		next := Rnpp1(g, set)
		if len(next) == len(set) {
			return set
		}
		set = next
	}
}

// Rnpp removes every production and nonterminal that is not productive,
// i.e. cannot derive any string of terminals (§4.9).
func Rnpp(g *Grammar) *Grammar {
	productive := Rnppl(g)
	if !productive[g.Start.Key()] {
		return New(g.Start)
	}
	out := New(g.Start)
	for _, p := range g.Productions() {
		if !productive[p.Lhs.Key()] {
			continue
		}
		keep := true
		for _, s := range p.Rhs {
			if !s.IsTerminal() && !productive[s.Nonterminal.Key()] {
				keep = false
				break
			}
		}
		if keep {
			out.InsProduction(p)
		}
	}
	return out
}

// Rup removes every nonterminal and production unreachable from the
// start symbol (§4.9).
func Rup(g *Grammar) *Grammar {
	reachable := map[string]bool{g.Start.Key(): true}
	for {
		added := false
		for _, p := range g.Productions() {
			if !reachable[p.Lhs.Key()] {
				continue
			}
			for _, s := range p.Rhs {
				if s.IsTerminal() {
					continue
				}
				k := s.Nonterminal.Key()
				if !reachable[k] {
					reachable[k] = true
					added = true
				}
			}
		}
		if !added {
			break
		}
	}
	out := New(g.Start)
	for _, p := range g.Productions() {
		if reachable[p.Lhs.Key()] {
			out.InsProduction(p)
		}
	}
	return out
}
