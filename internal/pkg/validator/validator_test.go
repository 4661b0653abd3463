package validator

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping-go/internal/pkg/timecalc"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-12d3-a456-426614174000",
	}
	invalid := []string{
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"0188d0f2-7b8c-7b4a-8a2b",              // truncated
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-02-30", "01-01-2023", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidTimeOfDay(t *testing.T) {
	if !IsValidTimeOfDay("08:00") {
		t.Error("IsValidTimeOfDay(08:00) = false")
	}
	if IsValidTimeOfDay("24:00") {
		t.Error("IsValidTimeOfDay(24:00) = true")
	}
}

func TestFromTimecalc(t *testing.T) {
	_, err := timecalc.ComputeDuration("99:00", "10:00")
	converted := FromTimecalc(err)

	var errs ValidationErrors
	if !errors.As(converted, &errs) {
		t.Fatalf("FromTimecalc returned %T", converted)
	}
	if msg := errs.ToMap()["check_in"]; msg == "" {
		t.Errorf("ToMap() = %v, want check_in entry", errs.ToMap())
	}

	other := errors.New("boom")
	if FromTimecalc(other) != other {
		t.Error("FromTimecalc changed an unrelated error")
	}
}

func TestPaging(t *testing.T) {
	page, limit := 0, 0
	if errs := Paging(&page, &limit); len(errs) != 0 {
		t.Fatalf("Paging defaults errs = %v", errs)
	}
	if page != 1 || limit != 20 {
		t.Errorf("Paging defaults = %d/%d, want 1/20", page, limit)
	}

	page, limit = -1, 101
	errs := Paging(&page, &limit)
	m := errs.ToMap()
	if _, ok := m["page"]; !ok {
		t.Error("missing page error")
	}
	if _, ok := m["limit"]; !ok {
		t.Error("missing limit error")
	}
}

func TestShowing(t *testing.T) {
	tests := []struct {
		page, limit int
		total       int64
		want        string
	}{
		{1, 20, 0, "0 of 0"},
		{1, 20, 1, "1-1 of 1"},
		{2, 20, 45, "21-40 of 45"},
		{3, 20, 45, "41-45 of 45"},
		{2, 20, 1, "0 of 1"},
		{9, 10, 30, "0 of 30"},
	}
	for _, tt := range tests {
		if got := Showing(tt.page, tt.limit, tt.total); got != tt.want {
			t.Errorf("Showing(%d, %d, %d) = %q, want %q", tt.page, tt.limit, tt.total, got, tt.want)
		}
	}
}
