package domain

// Category and City are reference data loaded once at bootstrap. Ids are
// treated as opaque elsewhere; only ModerationRequired carries semantics.
type Category struct {
	ID                 string `yaml:"id" json:"id"`
	Name               string `yaml:"name" json:"name"`
	ModerationRequired bool   `yaml:"moderation_required" json:"moderation_required"`
}

type City struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}
