package game

import (
	"github.com/jwebster45206/manor-mystery/pkg/actor"
)

// AccusationResolver decides accusations and charges the penalty for a
// wrong one. Ending the game and advancing the turn are left to the caller.
type AccusationResolver struct {
	penalty      int
	suspicionCap int
}

func NewAccusationResolver(penalty, suspicionCap int) *AccusationResolver {
	return &AccusationResolver{penalty: penalty, suspicionCap: suspicionCap}
}

// Resolve reports whether accused is the murderer. A wrong guess raises the
// accuser's suspicion by the penalty.
func (r *AccusationResolver) Resolve(accuser, accused *actor.Player) bool {
	if accused.Murderer {
		return true
	}
	accuser.AddSuspicion(r.penalty, r.suspicionCap)
	return false
}
