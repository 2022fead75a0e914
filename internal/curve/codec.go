package curve

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Points are written as [rpm, value] pairs in both JSON and YAML.

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.RPM, p.Value})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("curve point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("curve point: expected [rpm, value], got %d numbers", len(pair))
	}
	p.RPM, p.Value = pair[0], pair[1]
	return nil
}

func (p Point) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{p.RPM, p.Value} {
		var n yaml.Node
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &n)
	}
	return node, nil
}

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("curve point (line %d): %w", value.Line, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("curve point (line %d): expected [rpm, value], got %d numbers", value.Line, len(pair))
	}
	p.RPM, p.Value = pair[0], pair[1]
	return nil
}
