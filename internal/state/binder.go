package state

import (
	"fmt"
	"slices"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// DeriveConstructorInputs returns one empty input slot per constructor parameter.
// Contracts without a constructor (or no contract at all) get an empty slice.
func DeriveConstructorInputs(contract *models.CompiledContract) []string {
	return make([]string, contract.ConstructorParamCount())
}

// bindConstructorInputs resets the inputs whenever the selected contract changes identity.
// Values are never carried over, even between contracts of equal arity.
func bindConstructorInputs(s *Store) {
	Derive(s.SelectedContract, s.constructorInputs, func(prev, next *models.CompiledContract) ([]string, bool) {
		if prev == next {
			return nil, false
		}
		return DeriveConstructorInputs(next), true
	})
}

// SetConstructorInput edits a single constructor input slot
func (s *Store) SetConstructorInput(index int, value string) error {
	return s.Update(func(tx *Tx) error {
		inputs := s.constructorInputs.Read(tx)
		if index < 0 || index >= len(inputs) {
			return fmt.Errorf("%w: slot %d of %d", domain.ErrInputIndexOutOfRange, index, len(inputs))
		}
		next := slices.Clone(inputs)
		next[index] = value
		s.constructorInputs.Write(tx, next)
		return nil
	})
}

// SetConstructorInputs replaces every constructor input at once
func (s *Store) SetConstructorInputs(values []string) error {
	return s.Update(func(tx *Tx) error {
		inputs := s.constructorInputs.Read(tx)
		if len(values) != len(inputs) {
			return fmt.Errorf("%w: got %d values, constructor takes %d", domain.ErrConstructorArity, len(values), len(inputs))
		}
		s.constructorInputs.Write(tx, append([]string{}, values...))
		return nil
	})
}
