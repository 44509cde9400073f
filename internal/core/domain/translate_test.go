package domain

import "testing"

func TestMarkTranslated(t *testing.T) {
	marked := MarkTranslated("Bonjour")
	if marked != TranslationMarker+"Bonjour" {
		t.Errorf("unexpected marked text: %q", marked)
	}

	// Marking twice must not stack markers.
	if again := MarkTranslated(marked); again != marked {
		t.Errorf("marker stacked: %q", again)
	}
}

func TestStripTranslation(t *testing.T) {
	text, translated := StripTranslation(TranslationMarker + "Hello")
	if !translated {
		t.Error("expected translated = true")
	}
	if text != "Hello" {
		t.Errorf("unexpected text: %q", text)
	}

	text, translated = StripTranslation("Hello")
	if translated {
		t.Error("expected translated = false")
	}
	if text != "Hello" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestStripTranslation_RoundTrip(t *testing.T) {
	original := "Ein kurzer Absatz."
	text, translated := StripTranslation(MarkTranslated(original))
	if !translated || text != original {
		t.Errorf("round trip failed: %q (translated=%v)", text, translated)
	}
}
