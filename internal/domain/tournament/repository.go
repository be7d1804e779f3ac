package tournament

import (
	"context"
	"fmt"
)

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id uint32) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
	Insert(ctx context.Context, t Tournament) error
}

// SubstituteNotFoundError marks a retired tournament whose substitute
// reference does not resolve.
type SubstituteNotFoundError struct {
	TournamentID uint32
	SubstituteID uint32
}

func (e *SubstituteNotFoundError) Error() string {
	return fmt.Sprintf("tournament %d: substitute tournament %d not found", e.TournamentID, e.SubstituteID)
}

// Substitute resolves the tournament that replaced t in the calendar.
// It returns found=false when t is active or carries no substitute
// reference, and a SubstituteNotFoundError when the reference dangles.
func Substitute(ctx context.Context, repo Repository, t Tournament) (Tournament, bool, error) {
	if t.Active() || t.SubstituteID == 0 {
		return Tournament{}, false, nil
	}
	sub, ok, err := repo.GetByID(ctx, t.SubstituteID)
	if err != nil {
		return Tournament{}, false, err
	}
	if !ok {
		return Tournament{}, false, &SubstituteNotFoundError{TournamentID: t.ID, SubstituteID: t.SubstituteID}
	}
	return sub, true, nil
}
