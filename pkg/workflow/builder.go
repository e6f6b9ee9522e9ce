package workflow

// Builder assembles a workflow Definition in declaration order. Build
// validates the result, so a misconfigured workflow fails fast instead of
// at run time.
type Builder struct {
	def *Definition
}

// New starts a definition with the given workflow name.
func New(name string) *Builder {
	return &Builder{
		def: &Definition{Name: name},
	}
}

// Step appends a plain step to the sequence.
func (b *Builder) Step(step *Step) *Builder {
	b.def.Items = append(b.def.Items, step)
	return b
}

// Fork appends a set of mutually exclusive branches. Branches are tried in
// the given order; a guard-less branch is the fallback arm.
func (b *Builder) Fork(name string, branches ...*Branch) *Builder {
	b.def.Items = append(b.def.Items, &Fork{Name: name, Branches: branches})
	return b
}

// Before registers a hook that runs once before any step.
func (b *Builder) Before(hook BeforeFunc) *Builder {
	b.def.Callbacks.Before = append(b.def.Callbacks.Before, hook)
	return b
}

// After registers a hook that runs once after a fully successful run.
func (b *Builder) After(hook AfterFunc) *Builder {
	b.def.Callbacks.After = append(b.def.Callbacks.After, hook)
	return b
}

// Around registers a middleware hook wrapping every step's execution. The
// first registered hook is the outermost wrapper.
func (b *Builder) Around(hook AroundFunc) *Builder {
	b.def.Callbacks.Around = append(b.def.Callbacks.Around, hook)
	return b
}

// InTransaction wraps every run of this workflow in a transaction scope.
func (b *Builder) InTransaction() *Builder {
	b.def.Transactional = true
	return b
}

// Build validates and returns the definition.
func (b *Builder) Build() (*Definition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return b.def, nil
}
