package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPodcastScript_MissingSpeakers(t *testing.T) {
	tests := []struct {
		script PodcastScript
		want   []string
	}{
		{"Alex : Hi\nSam : Hello", nil},
		{"Alex : Just me", []string{"Sam"}},
		{"Sam : Just me", []string{"Alex"}},
		{"", []string{"Sam", "Alex"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.script.MissingSpeakers(defaultHosts), "script %q", tt.script)
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, zerolog.WarnLevel, newLogger("WARN", &buf).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("", &buf).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("chatty", &buf).GetLevel())

	newLogger("debug", &buf).Debug().Str("component", "test").Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}
