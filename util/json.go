package util

import (
	"encoding/json"
)

// JsonString marshal a value into a json string
func JsonString(v interface{}) (string, error) {
	bs, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// ParseJson unmarshal a json string into a value
func ParseJson(str string, v interface{}) error {
	return json.Unmarshal([]byte(str), v)
}
