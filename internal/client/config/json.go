package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/open436/forumctl/internal/flagx"
	"github.com/open436/forumctl/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the timeout can be written either as "15s" or as integer
// nanoseconds. Pointer fields distinguish "absent" from "zero" so a sparse
// file only overrides what it mentions.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	UseMock        *bool           `json:"use_mock"`
	StateDir       *string         `json:"state_dir"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c or
// -config. No flag means no file and an immediate return. Read and decode
// errors panic; there is no sane way to continue with a half-applied file.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.UseMock != nil {
		cfg.UseMock = *jc.UseMock
	}
	if jc.StateDir != nil {
		cfg.StateDir = *jc.StateDir
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
