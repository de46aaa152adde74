package batchstat

import (
	"crypto/md5"
	"encoding/json"
	"fmt"

	"github.com/karlseguin/typed"

	"github.com/chararch/batchstat/util"
)

// Settings point-in-time configuration settings of a unit of work
type Settings struct {
	typed.Typed
}

func NewSettings() Settings {
	return Settings{Typed: typed.Typed{}}
}

func (s *Settings) Set(k string, v any) *Settings {
	s.Typed[k] = v
	return s
}

func (s Settings) ToString() string {
	str, err := util.JsonString(s)
	if err != nil {
		panic(err)
	}
	return str
}

func (s *Settings) FromString(str string) error {
	return util.ParseJson(str, s)
}

func (s *Settings) UnmarshalJSON(bytes []byte) error {
	if s.Typed == nil {
		s.Typed = typed.Typed{}
	}
	return json.Unmarshal(bytes, &s.Typed)
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Typed)
}

// Footprint identity of the settings snapshot, stable across reloads
func (s Settings) Footprint() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	b := md5.Sum(bytes)
	return fmt.Sprintf("%x", b)
}
