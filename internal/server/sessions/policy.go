// Package sessions holds the token lifecycle decision logic. It is pure:
// the service layer loads the current record and classifies its expiry, the
// policy decides, the service persists.
package sessions

import "github.com/mkarpovich/authkeeper/internal/server/models"

// TokenStatus classifies a stored token string per the codec.
type TokenStatus int

const (
	// StatusValid: signature good, not yet expired.
	StatusValid TokenStatus = iota
	// StatusExpired: signature good, expiry has passed.
	StatusExpired
	// StatusInvalid: tampered, malformed, or signed with a different key.
	StatusInvalid
)

// Action is the policy's verdict for a login event.
type Action int

const (
	// ActionIssue: no record exists; mint a fresh token at full uses.
	ActionIssue Action = iota
	// ActionReuse: keep the stored token string and decrement its counter.
	ActionReuse
	// ActionReissue: overwrite the record with a new token at full uses.
	ActionReissue
)

// Decide computes the next token state for a login event. It is called only
// after credential verification has succeeded.
//
// An expired token with uses left is reused and decremented; everything else
// (exhausted counter, still-valid token, undecodable token) forces a reissue.
// Reusing expired tokens instead of rejecting them is intentional, inherited
// behavior; see DESIGN.md before changing it.
func Decide(record *models.Token, status TokenStatus) Action {
	if record == nil {
		return ActionIssue
	}
	if record.Uses >= 1 && status == StatusExpired {
		return ActionReuse
	}
	return ActionReissue
}
