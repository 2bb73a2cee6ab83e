// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root

package chrono

import "fmt"

// Task is an opaque, nullary unit of work submitted to a scheduler. Task
// identity is ordinary Go interface equality: two submissions that carry
// equal Task values produce two independent containers, and Remove removes
// the first container whose Task equals the argument.
type Task interface {
	Run()
}

// FuncTask adapts a plain closure into a Task. Two FuncTask values are only
// equal (for the purposes of Remove) if they are the same *FuncTask
// pointer, so NewFuncTask must be called once per submission whose identity
// the caller intends to track.
type FuncTask struct {
	name string
	fn   func()
}

// NewFuncTask wraps fn as a Task.
func NewFuncTask(fn func()) *FuncTask {
	return &FuncTask{fn: fn}
}

// Named wraps fn as a Task carrying a diagnostic name, surfaced by String.
func Named(name string, fn func()) *FuncTask {
	return &FuncTask{name: name, fn: fn}
}

// Run invokes the wrapped closure.
func (t *FuncTask) Run() {
	t.fn()
}

// String returns a diagnostic representation of the task, for debugging.
func (t *FuncTask) String() string {
	if t.name != "" {
		return fmt.Sprintf("chrono.FuncTask(%s)", t.name)
	}
	return fmt.Sprintf("chrono.FuncTask(%p)", t)
}
