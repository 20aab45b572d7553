package shop

import "strconv"

// Owner is the tagged ownership variant: either the administrator set or a
// specific player group. The zero value is Admin; no sentinel IDs exist.
type Owner struct {
	id    int
	owned bool
}

// Admin is the administrator ownership value.
var Admin = Owner{}

// OwnedBy returns ownership by the identified player group.
func OwnedBy(id int) Owner {
	return Owner{id: id, owned: true}
}

func (o Owner) IsAdmin() bool { return !o.owned }

// GroupID returns the owning group's ID; ok is false for Admin.
func (o Owner) GroupID() (int, bool) { return o.id, o.owned }

func (o Owner) String() string {
	if !o.owned {
		return "ADMIN"
	}
	return strconv.Itoa(o.id)
}
