package repository

import (
	"testing"

	"collector_backend/platform/apperr"
)

func TestParseClientPathTypeAcceptsCanonicalValues(t *testing.T) {
	for _, value := range []string{"messenger", "subscription", "chat_bot"} {
		pathType, err := ParseClientPathType(value)
		if err != nil {
			t.Fatalf("value %q: unexpected error: %v", value, err)
		}
		if string(pathType) != value {
			t.Fatalf("value %q: got %q", value, pathType)
		}
	}
}

func TestParseClientPathTypeRejectsUnknownAndMixedCase(t *testing.T) {
	for _, value := range []string{"", "Messenger", "MESSENGER", "chatbot", "email"} {
		if _, err := ParseClientPathType(value); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("value %q: expected validation error, got %v", value, err)
		}
	}
}

func TestParsePluginAcceptsKnownValues(t *testing.T) {
	for _, value := range []string{"senler", "vk", "bothelper"} {
		plugin, err := ParsePlugin(value)
		if err != nil {
			t.Fatalf("value %q: unexpected error: %v", value, err)
		}
		if plugin == nil || string(*plugin) != value {
			t.Fatalf("value %q: got %v", value, plugin)
		}
	}
}

func TestParsePluginEmptyMeansNone(t *testing.T) {
	plugin, err := ParsePlugin("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plugin != nil {
		t.Fatalf("expected nil plugin, got %v", *plugin)
	}
}

func TestParsePluginRejectsUnknownValues(t *testing.T) {
	for _, value := range []string{"Senler", "telegram", "VK"} {
		if _, err := ParsePlugin(value); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("value %q: expected validation error, got %v", value, err)
		}
	}
}
