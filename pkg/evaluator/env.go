package evaluator

// Env is the variable environment. The language has a single flat
// scope: FOR loop variables share it and remain bound after the loop.
type Env struct {
	vars map[string]Value
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// Get returns the value bound to name. Unbound names read as null.
func (e *Env) Get(name string) Value {
	if v, ok := e.vars[name]; ok {
		return v
	}
	return Null()
}

// Lookup returns the binding and whether it exists.
func (e *Env) Lookup(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to value, replacing any previous binding.
func (e *Env) Set(name string, v Value) {
	e.vars[name] = v
}

// Names returns the bound variable names, unordered.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for n := range e.vars {
		names = append(names, n)
	}
	return names
}
