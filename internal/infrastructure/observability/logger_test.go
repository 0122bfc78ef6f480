package observability

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  zerolog.Level
	}{
		{name: "unset defaults to info", value: "", want: zerolog.InfoLevel},
		{name: "debug", value: "debug", want: zerolog.DebugLevel},
		{name: "uppercase is accepted", value: "WARN", want: zerolog.WarnLevel},
		{name: "garbage falls back to info", value: "loudest", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			assert.Equal(t, tt.want, levelFromEnv())
		})
	}
}
