package model

import (
	"testing"
	"time"
)

func TestPlayerDateFormatFunctions(t *testing.T) {
	zeroDates := &Player{
		Created: time.Time{},
		Updated: time.Time{},
	}
	if zeroDates.FormattedCreatedTime() != "unknown" {
		t.Error("created time is not unknown")
	}
	if zeroDates.FormattedUpdatedTime() != "unknown" {
		t.Error("updated time is not unknown")
	}

	nonZeroDates := &Player{
		Created: time.Date(2024, 7, 8, 10, 14, 36, 136, time.UTC),
		Updated: time.Date(2024, 7, 9, 17, 12, 51, 0, time.UTC),
	}
	if nonZeroDates.FormattedCreatedTime() != "2024-07-08 10:14:36" {
		t.Errorf("created time was not expected value: '%s'", nonZeroDates.FormattedCreatedTime())
	}
	if nonZeroDates.FormattedUpdatedTime() != "2024-07-09 17:12:51" {
		t.Errorf("updated time was not expected value: '%s'", nonZeroDates.FormattedUpdatedTime())
	}
}

func TestChangeString(t *testing.T) {
	c := &Change{
		Time:         time.Date(2024, 7, 8, 10, 23, 19, 111, time.UTC),
		PropertyName: "FirstName",
		OldValue:     "Jonny",
		NewValue:     "John",
	}
	if c.String() != "FirstName changed from 'Jonny' to 'John'" {
		t.Errorf("string was not expected value: '%s'", c.String())
	}
}

func TestTrimNameSuffix(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"no suffix": {input: "Deebo Samuel", want: "Deebo Samuel"},
		"sr":        {input: "Deebo Samuel Sr.", want: "Deebo Samuel"},
		"jr":        {input: "Marvin Harrison Jr.", want: "Marvin Harrison"},
		"ii":        {input: "Will Fuller II", want: "Will Fuller"},
		"iii":       {input: "Will Fuller III", want: "Will Fuller"},
		"iv":        {input: "Dorial Green-Beckham IV", want: "Dorial Green-Beckham"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := TrimNameSuffix(tc.input)
			if got != tc.want {
				t.Errorf("expected: '%s', got: '%s'", tc.want, got)
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	tests := map[string]struct {
		input     string
		wantFirst string
		wantLast  string
	}{
		"simple":      {input: "Patrick Mahomes", wantFirst: "Patrick", wantLast: "Mahomes"},
		"three parts": {input: "Amon-Ra St. Brown", wantFirst: "Amon-Ra", wantLast: "St. Brown"},
		"one part":    {input: "Mahomes", wantFirst: "Mahomes", wantLast: ""},
		"padded":      {input: "  Jalen Hurts ", wantFirst: "Jalen", wantLast: "Hurts"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			first, last := SplitName(tc.input)
			if first != tc.wantFirst || last != tc.wantLast {
				t.Errorf("expected: ('%s', '%s'), got: ('%s', '%s')", tc.wantFirst, tc.wantLast, first, last)
			}
		})
	}
}
