package domain

// Operation identifies a policy-gated account operation.
type Operation string

const (
	OpListUsers     Operation = "list_users"
	OpCreateUser    Operation = "create_user"
	OpDeleteUser    Operation = "delete_user"
	OpChangeRole    Operation = "change_role"
	OpViewProfile   Operation = "view_profile"
	OpUpdateProfile Operation = "update_profile"
)

// Decide is the single authorization decision point. It returns nil when
// actor may perform op against the user identified by targetID, and
// ErrForbidden otherwise. Registration and login are pre-authentication
// and never pass through here.
//
// Rules:
//   - list_users, create_user, delete_user, change_role: admin only.
//     These do not depend on the target, so targetID is ignored.
//   - view_profile, update_profile: admin, or the actor's own record.
func Decide(actor *User, targetID string, op Operation) error {
	if actor == nil {
		return ErrForbidden
	}

	switch op {
	case OpListUsers, OpCreateUser, OpDeleteUser, OpChangeRole:
		if actor.IsAdmin() {
			return nil
		}
	case OpViewProfile, OpUpdateProfile:
		if actor.IsAdmin() || actor.ID == targetID {
			return nil
		}
	}
	return ErrForbidden
}
