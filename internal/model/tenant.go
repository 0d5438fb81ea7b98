package model

// Tenant is an isolated customer account. Users holds member
// identities, stored lower-cased so membership checks stay
// case-insensitive.
type Tenant struct {
	Key   string   `json:"key" bson:"key"`
	Name  string   `json:"name" bson:"name"`
	Users []string `json:"users" bson:"users"`
}

// HasUser reports whether the identity is a member of the tenant.
func (t *Tenant) HasUser(user string) bool {
	for _, u := range t.Users {
		if u == user {
			return true
		}
	}
	return false
}
