package settings

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New()

// weakHook converts the loosely typed values the admin console has always saved,
// e.g. articlesPerPage "10" or maxArticles "4"
func weakHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	switch {
	case f.Kind() == reflect.String && t.Kind() == reflect.Int:
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	case f.Kind() == reflect.String && t.Kind() == reflect.Bool:
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return false, nil
		}
		return strconv.ParseBool(s)
	case f.Kind() == reflect.Float64 && t.Kind() == reflect.Int:
		return int(data.(float64)), nil
	case f.Kind() == reflect.Float64 && t.Kind() == reflect.String:
		return strconv.FormatFloat(data.(float64), 'f', -1, 64), nil
	case f.Kind() == reflect.Bool && t.Kind() == reflect.String:
		return strconv.FormatBool(data.(bool)), nil
	default:
		return data, nil
	}
}

func newDecoder(out interface{}) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "json",
		ZeroFields: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(weakHook),
	})
}

// decodeOver decodes the json document raw onto out, which already holds defaults.
// Fields missing from raw keep their default value.
func decodeOver(raw []byte, out interface{}) error {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return decodeValue(generic, out)
}

func decodeValue(generic interface{}, out interface{}) error {
	decoder, err := newDecoder(out)
	if err != nil {
		return err
	}
	if err = decoder.Decode(generic); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func check(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func checkAll[T any](items []T) error {
	for i := range items {
		if err := check(&items[i]); err != nil {
			return err
		}
	}
	return nil
}
