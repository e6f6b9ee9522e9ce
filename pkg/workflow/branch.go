package workflow

// BranchDecisionNone is recorded when no branch of a fork matched and no
// fallback exists. The fork then contributes zero steps, which is not an
// error.
const BranchDecisionNone = "none"

// Branch is one arm of a Fork: an ordered step sequence guarded by a
// condition. A guard-less Branch is the fork's fallback arm.
type Branch struct {
	Name  string
	Guard Condition
	Steps []*Step
}

// IsFallback reports whether this branch is the guard-less default arm.
func (b *Branch) IsFallback() bool {
	return b.Guard == nil
}

// matches reports whether this branch should be selected for the given
// context. The fallback arm always matches; a guard that errors or panics
// is treated as not matching and never propagates.
func (b *Branch) matches(ctx *Context) bool {
	if b.Guard == nil {
		return true
	}
	return evaluateCondition(b.Guard, ctx)
}

// Fork is a set of mutually exclusive Branches embedded in a workflow's
// step sequence. At most one branch executes per run.
type Fork struct {
	Name     string
	Branches []*Branch
}

// resolve selects the branch to execute: the first guarded branch whose
// guard matches, else the fallback, else nil. Guards are evaluated in
// declaration order, each at most once per run.
func (f *Fork) resolve(ctx *Context) *Branch {
	var fallback *Branch

	for _, branch := range f.Branches {
		if branch.IsFallback() {
			if fallback == nil {
				fallback = branch
			}
			continue
		}
		if branch.matches(ctx) {
			return branch
		}
	}

	return fallback
}

// steps returns every step of every branch, used for definition-time name
// uniqueness checks.
func (f *Fork) steps() []*Step {
	var all []*Step
	for _, branch := range f.Branches {
		all = append(all, branch.Steps...)
	}
	return all
}

// Item is one entry in a workflow's ordered sequence: a plain *Step or a
// *Fork of mutually exclusive branches.
type Item interface {
	isItem()
}

func (*Step) isItem() {}
func (*Fork) isItem() {}
