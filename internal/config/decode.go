package config

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
)

var (
	stringListType = reflect.TypeOf(StringList{})
	allowEntryType = reflect.TypeOf(AllowEntry{})
)

// Unmarshal decodes the koanf tree at path into out, accepting the short
// forms of StringList and AllowEntry.
func Unmarshal(k *koanf.Koanf, path string, out any) error {
	return k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				decodeShortForms,
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           out,
			WeaklyTypedInput: true,
		},
	})
}

func decodeShortForms(from, to reflect.Type, data any) (any, error) {
	switch to {
	case stringListType:
		if s, ok := data.(string); ok {
			return StringList{s}, nil
		}
	case allowEntryType:
		return decodeAllowEntry(data)
	}
	return data, nil
}

// decodeAllowEntry normalizes the string and tuple forms into the map form.
func decodeAllowEntry(data any) (any, error) {
	switch v := data.(type) {
	case string:
		return map[string]any{"type": v}, nil
	case []any:
		if len(v) == 0 || len(v) > 2 {
			return nil, fmt.Errorf("allow entry %v must be [type] or [type, {capture: value}]", v)
		}
		name, ok := v[0].(string)
		if !ok {
			return nil, fmt.Errorf("allow entry %v: type must be a string", v)
		}
		entry := map[string]any{"type": name}
		if len(v) == 2 {
			captures, ok := v[1].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("allow entry %v: captures must be a map", v)
			}
			entry["captures"] = captures
		}
		return entry, nil
	}
	return data, nil
}
