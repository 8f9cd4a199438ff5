package gauge

import (
	"errors"
	"testing"
)

func TestParseAttributes_Defaults(t *testing.T) {
	attrs, err := ParseAttributes(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs != (Attributes{Balance: 0, Credit: 0, Padding: 20}) {
		t.Errorf("attrs = %+v, want defaults", attrs)
	}
}

func TestParseAttributes_Values(t *testing.T) {
	attrs, err := ParseAttributes(map[string]string{
		"balance": " -12.5 ",
		"credit":  "1000",
		"padding": "",
		"style":   "ignored",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs.Balance != -12.5 || attrs.Credit != 1000 {
		t.Errorf("attrs = %+v", attrs)
	}
	if attrs.Padding != 0 {
		t.Errorf("Padding = %v, want 0 for empty value", attrs.Padding)
	}
}

func TestParseAttributes_Invalid(t *testing.T) {
	_, err := ParseAttributes(map[string]string{"credit": "lots"})
	if !errors.Is(err, ErrInvalidAttribute) {
		t.Fatalf("err = %v, want ErrInvalidAttribute", err)
	}
}

func TestAttributesSet_Unknown(t *testing.T) {
	attrs := DefaultAttributes()
	if err := attrs.Set("colour", "12"); !errors.Is(err, ErrUnknownAttribute) {
		t.Fatalf("err = %v, want ErrUnknownAttribute", err)
	}
	if attrs != DefaultAttributes() {
		t.Errorf("attrs modified: %+v", attrs)
	}
}

func TestAttributesInput(t *testing.T) {
	attrs := Attributes{Balance: 50, Credit: 100, Padding: 20}
	in := attrs.Input(500)
	want := Input{Balance: 50, Credit: 100, TrackWidth: 500, Padding: 20}
	if in != want {
		t.Errorf("Input = %+v, want %+v", in, want)
	}
}
