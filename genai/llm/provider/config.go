package provider

// Config is a named model definition with provider options.
type Config struct {
	ID          string  `yaml:"id" json:"id"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Options     Options `yaml:"options" json:"options"`
}

// Configs is a slice of Config pointers.
type Configs []*Config

// Find is a method that searches for a model by its ID in the Configs slice.
func (m Configs) Find(id string) *Config {
	for _, model := range m {
		if model.ID == id {
			return model
		}
	}
	return nil
}
