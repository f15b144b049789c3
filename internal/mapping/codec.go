package mapping

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Decoding starts from the defaults so that missing keys keep them.

// UnmarshalJSON implements json.Unmarshaler.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	type plain Mapping

	p := plain(NewMapping(DefaultName))
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*m = Mapping(p)

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	type plain Mapping

	p := plain(NewMapping(DefaultName))
	if err := node.Decode(&p); err != nil {
		return err
	}

	*m = Mapping(p)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Target) UnmarshalJSON(data []byte) error {
	type plain Target

	p := plain(NewTarget(""))
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*t = Target(p)

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Target) UnmarshalYAML(node *yaml.Node) error {
	type plain Target

	p := plain(NewTarget(""))
	if err := node.Decode(&p); err != nil {
		return err
	}

	*t = Target(p)

	return nil
}
