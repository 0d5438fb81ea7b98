package model

const (
	RoleAdministrator = "administrator"
	RoleViewer        = "viewer"
)

// FeatureToggle is the full persisted record for a toggle. Records are
// replaced wholesale on update; archival is a flag, never a delete.
type FeatureToggle struct {
	Key                         string        `json:"key" bson:"key"`
	Name                        string        `json:"name" bson:"name"`
	Archived                    bool          `json:"archived" bson:"archived"`
	Environments                []Environment `json:"environments" bson:"environments"`
	RoleBasedAccessControlItems []RBACItem    `json:"roleBasedAccessControlItems" bson:"roleBasedAccessControlItems"`
	User                        string        `json:"user" bson:"user"`
	CreatedAt                   int64         `json:"createdAt" bson:"createdAt"` // epoch ms
	UpdatedAt                   int64         `json:"updatedAt" bson:"updatedAt"` // epoch ms
}

// Environment is a named rollout context inside a toggle. If Enabled is
// false the toggle is off for that environment regardless of
// EnabledForAll or Consumers.
type Environment struct {
	Key           string   `json:"key" bson:"key"`
	Name          string   `json:"name" bson:"name"`
	Enabled       bool     `json:"enabled" bson:"enabled"`
	EnabledForAll bool     `json:"enabledForAll" bson:"enabledForAll"`
	Consumers     []string `json:"consumers" bson:"consumers"`
}

// RBACItem grants a non-owner subject a named role on a toggle.
type RBACItem struct {
	Subject string `json:"subject" bson:"subject"`
	Role    string `json:"role" bson:"role"`
}

// FindEnvironment returns the environment with the given key, or nil.
func (t *FeatureToggle) FindEnvironment(key string) *Environment {
	for i := range t.Environments {
		if t.Environments[i].Key == key {
			return &t.Environments[i]
		}
	}
	return nil
}
