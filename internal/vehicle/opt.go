package vehicle

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Opt is a sparse override: unset means "use stock".
type Opt[T any] struct {
	v   T
	set bool
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, set: true}
}

func (o Opt[T]) Get() (T, bool) { return o.v, o.set }

func (o Opt[T]) IsSet() bool { return o.set }

// IsZero lets yaml omitempty and json omitzero drop unset fields.
func (o Opt[T]) IsZero() bool { return !o.set }

// Or returns the override if set, otherwise stock.
func (o Opt[T]) Or(stock T) T {
	if o.set {
		return o.v
	}
	return stock
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o Opt[T]) MarshalYAML() (interface{}, error) {
	if !o.set {
		return nil, nil
	}
	return o.v, nil
}

func (o *Opt[T]) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := value.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
