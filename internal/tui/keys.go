// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// Logical key events. keyQuit is the hard interrupt (Ctrl+C) and exits from
// any state; keyCancel (Esc) quits from the list and dismisses sub-views.
const (
	keyNone keyKind = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyPageUp
	keyPageDown
	keyHome
	keyEnd
	keyToggleSelect
	keySelectAllVisible
	keyClearVisibleSelection
	keyConfirm
	keyCancel
	keyBackspace
	keyClearFilter
	keyPrintable
	keyQuit
)

type (
	// keyKind identifies a logical input event.
	keyKind int

	// keyEvent is one decoded input event. text is set for keyPrintable
	// events: a single character for typed input, possibly more for pasted
	// text.
	keyEvent struct {
		kind keyKind
		text string
	}
)

// printableChar builds the logical event for one typed character.
func printableChar(r rune) keyEvent {
	return keyEvent{kind: keyPrintable, text: string(r)}
}

// decodeKey maps a terminal key message to a logical key event. It is the
// only place raw terminal input is interpreted; the state handlers never see
// a tea.KeyMsg.
func decodeKey(msg tea.KeyMsg) keyEvent {
	switch msg.Type {
	case tea.KeyCtrlC:
		return keyEvent{kind: keyQuit}
	case tea.KeyEsc:
		return keyEvent{kind: keyCancel}
	case tea.KeyUp:
		return keyEvent{kind: keyUp}
	case tea.KeyDown:
		return keyEvent{kind: keyDown}
	case tea.KeyLeft:
		return keyEvent{kind: keyLeft}
	case tea.KeyRight:
		return keyEvent{kind: keyRight}
	case tea.KeyPgUp:
		return keyEvent{kind: keyPageUp}
	case tea.KeyPgDown:
		return keyEvent{kind: keyPageDown}
	case tea.KeyHome:
		return keyEvent{kind: keyHome}
	case tea.KeyEnd:
		return keyEvent{kind: keyEnd}
	case tea.KeyEnter:
		return keyEvent{kind: keyConfirm}
	case tea.KeySpace:
		return keyEvent{kind: keyToggleSelect}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return keyEvent{kind: keyBackspace}
	case tea.KeyDelete:
		return keyEvent{kind: keyClearFilter}
	case tea.KeyRunes:
		return decodeRunes(msg)
	default:
		return keyEvent{kind: keyNone}
	}
}

// decodeRunes handles typed characters and pasted text. The selection keys
// +, - and space act on the list instead of the filter when typed alone.
func decodeRunes(msg tea.KeyMsg) keyEvent {
	if msg.Alt || len(msg.Runes) == 0 {
		return keyEvent{kind: keyNone}
	}

	if len(msg.Runes) == 1 {
		switch r := msg.Runes[0]; r {
		case '+':
			return keyEvent{kind: keySelectAllVisible}
		case '-':
			return keyEvent{kind: keyClearVisibleSelection}
		case ' ':
			return keyEvent{kind: keyToggleSelect}
		default:
			if unicode.IsPrint(r) {
				return printableChar(r)
			}
			return keyEvent{kind: keyNone}
		}
	}

	// Pasted text arrives as a single multi-rune message. Control characters
	// are dropped; the rest feeds the filter verbatim.
	printable := make([]rune, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		if unicode.IsPrint(r) {
			printable = append(printable, r)
		}
	}
	if len(printable) == 0 {
		return keyEvent{kind: keyNone}
	}
	return keyEvent{kind: keyPrintable, text: string(printable)}
}
