package models

import "testing"

func TestIsTerminalCommandStatus(t *testing.T) {
	terminal := []string{CommandStatusCompleted, CommandStatusFailed}
	for _, status := range terminal {
		if !IsTerminalCommandStatus(status) {
			t.Errorf("trạng thái %s phải là terminal", status)
		}
	}

	nonTerminal := []string{
		CommandStatusInterpreting,
		CommandStatusAwaitingConfirmation,
		CommandStatusExecuting,
		"",
		"unknown",
	}
	for _, status := range nonTerminal {
		if IsTerminalCommandStatus(status) {
			t.Errorf("trạng thái %s không được là terminal", status)
		}
	}
}
