package main

import (
	tea "github.com/charmbracelet/bubbletea"
)

// runProgram runs a Bubble Tea program to completion and returns the final
// model.
var runProgram = func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	return tea.NewProgram(m, opts...).Run()
}
