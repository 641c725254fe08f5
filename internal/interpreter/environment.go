package interpreter

import (
	"fmt"
	"sort"

	"mlox/internal/errors"
	"mlox/internal/lexer"
	"mlox/internal/value"
)

// Environment is one lexical scope. Names resolve in the innermost scope
// that declares them.
type Environment struct {
	values    map[string]value.Value
	enclosing *Environment
}

// NewEnvironment creates a scope nested in enclosing; pass nil for the root.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]value.Value),
		enclosing: enclosing,
	}
}

// Define binds name in this scope, replacing any existing binding.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

func (e *Environment) Get(name lexer.Token) (value.Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, undefined(name)
}

// Assign overwrites the nearest existing binding. It never declares.
func (e *Environment) Assign(name lexer.Token, v value.Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = v
			return nil
		}
	}
	return undefined(name)
}

// Names lists the names bound in this scope only, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func undefined(name lexer.Token) *errors.Error {
	return errors.NewRuntimeError(errors.UndefinedVariable,
		fmt.Sprintf("Undefined variable '%s'.", name.Lexeme), name.Line)
}
