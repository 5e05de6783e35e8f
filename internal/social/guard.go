package social

// Owned is any entity with an owning author. Posts and comments
// implement it; ids are compared numerically, the one canonical
// identity representation in this system.
type Owned interface {
	OwnerID() uint
}

// IsOwner reports whether the principal authored the entity.
func IsOwner(entity Owned, principalID uint) bool {
	return entity.OwnerID() == principalID
}

// RequireOwner fails with a not-authorized error unless the principal
// authored the entity. Callers apply it before every edit or delete of
// a post or comment, never before likes or reads.
func RequireOwner(entity Owned, principalID uint) error {
	if !IsOwner(entity, principalID) {
		return newError(KindNotAuthorized, "you are not authorized to modify this resource")
	}
	return nil
}
