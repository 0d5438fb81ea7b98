package req

import "togglekit/internal/model"

type Environment struct {
	Key           string   `json:"key" binding:"required"`
	Name          string   `json:"name"`
	Enabled       bool     `json:"enabled"`
	EnabledForAll bool     `json:"enabledForAll"`
	Consumers     []string `json:"consumers"`
}

type RBACItem struct {
	Subject string `json:"subject" binding:"required"`
	Role    string `json:"role" binding:"required,oneof=administrator viewer"`
}

// FeatureToggle is the full-record payload for create and update. The
// key in the URL wins over the one in the body; createdAt/updatedAt
// are round-tripped by callers on update and restamped by storage.
type FeatureToggle struct {
	Key                         string        `json:"key"`
	Name                        string        `json:"name" binding:"required"`
	Archived                    bool          `json:"archived"`
	Environments                []Environment `json:"environments" binding:"dive"`
	RoleBasedAccessControlItems []RBACItem    `json:"roleBasedAccessControlItems" binding:"dive"`
	User                        string        `json:"user"`
	CreatedAt                   int64         `json:"createdAt"`
	UpdatedAt                   int64         `json:"updatedAt"`
}

func (r *FeatureToggle) Model() *model.FeatureToggle {
	environments := make([]model.Environment, 0, len(r.Environments))
	for _, e := range r.Environments {
		consumers := e.Consumers
		if consumers == nil {
			consumers = []string{}
		}
		environments = append(environments, model.Environment{
			Key:           e.Key,
			Name:          e.Name,
			Enabled:       e.Enabled,
			EnabledForAll: e.EnabledForAll,
			Consumers:     consumers,
		})
	}

	items := make([]model.RBACItem, 0, len(r.RoleBasedAccessControlItems))
	for _, item := range r.RoleBasedAccessControlItems {
		items = append(items, model.RBACItem{Subject: item.Subject, Role: item.Role})
	}

	return &model.FeatureToggle{
		Key:                         r.Key,
		Name:                        r.Name,
		Archived:                    r.Archived,
		Environments:                environments,
		RoleBasedAccessControlItems: items,
		User:                        r.User,
		CreatedAt:                   r.CreatedAt,
		UpdatedAt:                   r.UpdatedAt,
	}
}
