package render

import (
	"encoding/json"
)

// Each variant is encoded with a leading "type" field. The local plain types
// drop the methods so encoding does not recurse.

func (n Box) MarshalJSON() ([]byte, error) {
	type plain Box
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindBox, plain(n)})
}

func (n Box) MarshalYAML() (any, error) {
	type plain Box
	return struct {
		Type  Kind `yaml:"type"`
		plain `yaml:",inline"`
	}{KindBox, plain(n)}, nil
}

func (n Text) MarshalJSON() ([]byte, error) {
	type plain Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindText, plain(n)})
}

func (n Text) MarshalYAML() (any, error) {
	type plain Text
	return struct {
		Type  Kind `yaml:"type"`
		plain `yaml:",inline"`
	}{KindText, plain(n)}, nil
}

func (n Path) MarshalJSON() ([]byte, error) {
	type plain Path
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindPath, plain(n)})
}

func (n Path) MarshalYAML() (any, error) {
	type plain Path
	return struct {
		Type  Kind `yaml:"type"`
		plain `yaml:",inline"`
	}{KindPath, plain(n)}, nil
}

func (n Image) MarshalJSON() ([]byte, error) {
	type plain Image
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindImage, plain(n)})
}

func (n Image) MarshalYAML() (any, error) {
	type plain Image
	return struct {
		Type  Kind `yaml:"type"`
		plain `yaml:",inline"`
	}{KindImage, plain(n)}, nil
}

func (n Group) MarshalJSON() ([]byte, error) {
	type plain Group
	if n.Children == nil {
		n.Children = []Node{}
	}
	return json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindGroup, plain(n)})
}

func (n Group) MarshalYAML() (any, error) {
	type plain Group
	if n.Children == nil {
		n.Children = []Node{}
	}
	return struct {
		Type  Kind `yaml:"type"`
		plain `yaml:",inline"`
	}{KindGroup, plain(n)}, nil
}
