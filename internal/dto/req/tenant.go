package req

import "togglekit/internal/model"

type Tenant struct {
	Key   string   `json:"key" binding:"required"`
	Name  string   `json:"name" binding:"required"`
	Users []string `json:"users"`
}

func (r *Tenant) Model() *model.Tenant {
	users := r.Users
	if users == nil {
		users = []string{}
	}
	return &model.Tenant{Key: r.Key, Name: r.Name, Users: users}
}
