package services

// CanModify reports whether actor may edit or delete a resource owned by owner.
// There are no roles: only the owner passes, and the zero id never does.
func CanModify(actorID, ownerID uint) bool {
	return actorID != 0 && actorID == ownerID
}
