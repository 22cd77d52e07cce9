package service

import (
	"errors"
	"fmt"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/exams/scoring"
)

var (
	ErrWrongSection     = errors.New("that section is not the current one")
	ErrAttemptCompleted = errors.New("final exam already completed")
)

// Machine walks the final exam sections in constants.SectionOrder. Index
// equal to len(SectionOrder) is the result state.
type Machine struct {
	Index  int
	Scores map[string]int
}

func NewMachine() *Machine {
	return &Machine{Scores: map[string]int{}}
}

// Resume rebuilds a machine from persisted state.
func Resume(index int, scores map[string]int) *Machine {
	m := &Machine{Index: index, Scores: map[string]int{}}
	for k, v := range scores {
		m.Scores[k] = v
	}
	if m.Index < 0 {
		m.Index = 0
	}
	if m.Index > len(constants.SectionOrder) {
		m.Index = len(constants.SectionOrder)
	}
	return m
}

func (m *Machine) Done() bool {
	return m.Index >= len(constants.SectionOrder)
}

// Current is the section awaiting an answer, "" once done.
func (m *Machine) Current() string {
	if m.Done() {
		return ""
	}
	return constants.SectionOrder[m.Index]
}

// Submit records score for section and advances. Only the current section
// is accepted.
func (m *Machine) Submit(section string, score int) error {
	if m.Done() {
		return ErrAttemptCompleted
	}
	if section != m.Current() {
		return fmt.Errorf("%w: expected %s, got %s", ErrWrongSection, m.Current(), section)
	}
	m.Scores[section] = score
	m.Index++
	return nil
}

// Result is the total out of 40 and whether it reaches the pass mark.
func (m *Machine) Result() (total int, passed bool) {
	return scoring.Aggregate(m.Scores)
}
