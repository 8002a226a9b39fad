package shared

import "github.com/google/uuid"

// UUIDList is a UUID slice stored as a JSON column
type UUIDList []uuid.UUID

// Contains reports whether the list holds the given ID
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}
