package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"taskboard/internal/board"
	"taskboard/internal/model"
)

// BoardRef is a parsed card reference: a column letter plus the card's
// 1-based position within that column, e.g. t1, p2, c1.
type BoardRef struct {
	Column model.Status
	Num    int // 1-based position within the column
}

// ErrBoardRefRequired indicates no card reference was provided.
var ErrBoardRefRequired = errors.New("card reference required")

// columnByLetter maps reference letters to columns.
var columnByLetter = map[rune]model.Status{
	't': model.StatusTodo,
	'p': model.StatusInProgress,
	'c': model.StatusCompleted,
}

// ParseBoardRef parses a card reference from args.
//
// Parsing rules:
//  1. <letter><digits> (e.g. t1, p12) → combined reference
//  2. <letter> <digits> as two args (e.g. t 1) → separated reference
//  3. Single letter with no number → error: card reference required
//  4. Otherwise → error: invalid card reference: <ref>
//
// Returns the reference and the number of args consumed.
func ParseBoardRef(args []string) (BoardRef, int, error) {
	if len(args) == 0 {
		return BoardRef{}, 0, ErrBoardRefRequired
	}

	firstArg := args[0]
	if firstArg == "" {
		return BoardRef{}, 0, fmt.Errorf("invalid card reference: %s", firstArg)
	}

	column, ok := columnByLetter[rune(firstArg[0])]
	if !ok {
		return BoardRef{}, 0, fmt.Errorf("invalid card reference: %s", firstArg)
	}

	// Case 1: <letter><digits>
	if len(firstArg) > 1 {
		if !isAllDigits(firstArg[1:]) {
			return BoardRef{}, 0, fmt.Errorf("invalid card reference: %s", firstArg)
		}
		num, err := strconv.Atoi(firstArg[1:])
		if err != nil {
			return BoardRef{}, 0, fmt.Errorf("invalid card reference: %s", firstArg)
		}
		return BoardRef{Column: column, Num: num}, 1, nil
	}

	// Case 2: <letter> <digits>
	if len(args) < 2 {
		return BoardRef{}, 0, ErrBoardRefRequired
	}
	if !isAllDigits(args[1]) {
		return BoardRef{}, 0, fmt.Errorf("invalid card reference: %s %s", firstArg, args[1])
	}
	num, err := strconv.Atoi(args[1])
	if err != nil {
		return BoardRef{}, 0, fmt.Errorf("invalid card reference: %s %s", firstArg, args[1])
	}
	return BoardRef{Column: column, Num: num}, 2, nil
}

// Resolve returns the referenced task from the given task list.
func (r BoardRef) Resolve(tasks []model.Task) (model.Task, error) {
	column := board.Column(tasks, r.Column)
	if r.Num < 1 || r.Num > len(column) {
		return model.Task{}, fmt.Errorf("card number out of range: %d", r.Num)
	}
	return column[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
