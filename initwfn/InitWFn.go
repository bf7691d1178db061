// Package initwfn implements functionality to wrap Gorgonia InitWFn
// so that they can be JSON serialized into run records.
package initwfn

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available.
// Type is used to implement a basic type system of InitWFn's.
type Type string

// Available InitWFn types
const (
	GlorotU Type = "GlorotU"
	GlorotN Type = "GlorotN"
	HeU     Type = "HeU"
	HeN     Type = "HeN"
	Zeroes  Type = "Zeroes"
)

// ParseType returns the InitWFn Type with the given case-insensitive
// name
func ParseType(name string) (Type, error) {
	for _, t := range []Type{GlorotU, GlorotN, HeU, HeN, Zeroes} {
		if strings.EqualFold(name, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("parseType: no such initializer %q", name)
}

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled and
// unmarshalled.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Config
}

// New returns a new InitWFn of type t. The gain is ignored by
// initializers that do not scale.
func New(t Type, gain float64) (*InitWFn, error) {
	switch t {
	case GlorotU, GlorotN, HeU, HeN:
		return newInitWFn(ScaledConfig{Init: t, Gain: gain})
	case Zeroes:
		return newInitWFn(ZeroesConfig{})
	}
	return nil, fmt.Errorf("new: no such initializer %v", t)
}

// newInitWFn returns a new InitWFn
func newInitWFn(c Config) (*InitWFn, error) {
	init := InitWFn{Type: c.Type(), Config: c}
	init.initWFn = init.Config.Create()

	return &init, nil
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Config)
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}

	var typeName Type
	if err := json.Unmarshal(m["Type"], &typeName); err != nil {
		return fmt.Errorf("unmarshalJSON: could not read type: %v", err)
	}

	concrete := map[Type]reflect.Type{
		GlorotU: reflect.TypeOf(ScaledConfig{}),
		GlorotN: reflect.TypeOf(ScaledConfig{}),
		HeU:     reflect.TypeOf(ScaledConfig{}),
		HeN:     reflect.TypeOf(ScaledConfig{}),
		Zeroes:  reflect.TypeOf(ZeroesConfig{}),
	}
	ty, ok := concrete[typeName]
	if !ok {
		return fmt.Errorf("unmarshalJSON: no such initializer %q", typeName)
	}

	value := reflect.New(ty).Interface()
	if raw, ok := m["Config"]; ok {
		if err := json.Unmarshal(raw, value); err != nil {
			return fmt.Errorf("unmarshalJSON: could not read config: %v", err)
		}
	}
	config := reflect.ValueOf(value).Elem().Interface().(Config)
	if config.Type() != typeName {
		return fmt.Errorf("unmarshalJSON: config of type %v stored as %v",
			config.Type(), typeName)
	}

	i.Type = typeName
	i.Config = config
	i.initWFn = i.Config.Create()

	return nil
}

// Config implements a Gorgonia InitWFn configuration and can be used to
// create the described Gorgonia InitWFn's.
type Config interface {
	// Create returns the Gorgonia InitWFn that the Config describes
	Create() G.InitWFn

	// Type returns the type of Gorgonia InitWFn that is returned
	Type() Type
}
