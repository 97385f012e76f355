package insights

import (
	"errors"
	"testing"
)

func TestRecoverJSONFromChatter(t *testing.T) {
	raw := `Sure! Here's your data: [{"tip": "Save more"}]`

	value, err := RecoverJSON(raw)
	if err != nil {
		t.Fatalf("RecoverJSON returned error: %v", err)
	}

	arr, ok := value.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", value)
	}
	if len(arr) != 1 {
		t.Fatalf("expected 1 element, got %d", len(arr))
	}
	obj, ok := arr[0].(map[string]any)
	if !ok {
		t.Fatalf("expected object element, got %T", arr[0])
	}
	if obj["tip"] != "Save more" {
		t.Fatalf("expected tip %q, got %v", "Save more", obj["tip"])
	}
}

func TestRecoverJSONObjectInMarkdownFence(t *testing.T) {
	raw := "Here you go:\n```json\n{\"summary\": \"Good month\", \"actionItems\": [\"a\"], \"nextSteps\": [\"b\"]}\n```"

	value, err := RecoverJSON(raw)
	if err != nil {
		t.Fatalf("RecoverJSON returned error: %v", err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	if obj["summary"] != "Good month" {
		t.Fatalf("expected summary %q, got %v", "Good month", obj["summary"])
	}
}

func TestRecoverJSONRepairsTrailingComma(t *testing.T) {
	value, err := RecoverJSON(`[{"tip": "a"}, {"tip": "b"},]`)
	if err != nil {
		t.Fatalf("RecoverJSON returned error: %v", err)
	}
	arr, ok := value.([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("expected 2-element array after repair, got %#v", value)
	}
}

func TestRecoverJSONRepairsUnquotedKeys(t *testing.T) {
	value, err := RecoverJSON(`{summary: "ok", actionItems: ["a"], nextSteps: ["b"]}`)
	if err != nil {
		t.Fatalf("RecoverJSON returned error: %v", err)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	if obj["summary"] != "ok" {
		t.Fatalf("unquoted keys should be repaired, got %#v", obj)
	}
}

func TestRecoverJSONNoFragment(t *testing.T) {
	for _, raw := range []string{
		"I cannot help with that request.",
		"",
		"{", // opener without a closer
	} {
		_, err := RecoverJSON(raw)
		if !errors.Is(err, ErrNoJSON) {
			t.Errorf("RecoverJSON(%q) error = %v, want ErrNoJSON", raw, err)
		}

		var recoverErr *RecoverError
		if !errors.As(err, &recoverErr) {
			t.Fatalf("RecoverJSON(%q) should return a *RecoverError, got %T", raw, err)
		}
		if recoverErr.Raw != raw {
			t.Errorf("RecoverError.Raw = %q, want original text %q", recoverErr.Raw, raw)
		}
	}
}

func TestExtractJSONPrefersEarlierOpener(t *testing.T) {
	fragment, ok := extractJSON(`note [1, 2] end`)
	if !ok {
		t.Fatal("expected a fragment")
	}
	if fragment != "[1, 2]" {
		t.Fatalf("expected %q, got %q", "[1, 2]", fragment)
	}

	fragment, ok = extractJSON(`{"a": [1]} tail`)
	if !ok {
		t.Fatal("expected a fragment")
	}
	if fragment != `{"a": [1]}` {
		t.Fatalf("object opener should win when it comes first, got %q", fragment)
	}
}
