package screentime

import (
	"context"
	"fmt"

	"screenBreak/domain"
)

// ReferenceRepository loads the reference population once at startup.
type ReferenceRepository interface {
	LoadReference(ctx context.Context) (*domain.ReferenceDataset, error)
}

// LoadReference reads the reference set from repo and rejects an empty
// result up front, so a misconfigured source fails at boot instead of on the
// first request.
func LoadReference(ctx context.Context, repo ReferenceRepository) (*domain.ReferenceDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	ref, err := repo.LoadReference(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}
	if ref.Len() == 0 {
		return nil, &EmptyReferenceError{Source: ref.Source()}
	}

	return ref, nil
}
