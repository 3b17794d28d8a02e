package usecase

import (
	"errors"
	"fmt"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Callers should treat it as retriable.
var ErrPersistence = errors.New("chat use case persistence error")

// wrapRepoErr keeps domain errors intact and marks store failures as
// persistence errors.
func wrapRepoErr(err error) error {
	if errors.Is(err, chat.ErrStoreUnavailable) {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return err
}
