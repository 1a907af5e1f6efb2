package utils

import (
	"testing"
	"time"
)

func TestOldnessPenalty(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		updated  time.Time
		expected float64
	}{
		{"Never updated", time.Time{}, 0},
		{"Updated just now", now, 0},
		{"Ten days", now.Add(-10 * 24 * time.Hour), 2},
		{"Partial days floor", now.Add(-(7*24 + 23) * time.Hour), 1.4},
		{"Capped at one hundred days", now.Add(-400 * 24 * time.Hour), 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OldnessPenalty(tt.updated, now)
			if result != tt.expected {
				t.Errorf("OldnessPenalty() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVersionPenalty(t *testing.T) {
	tests := []struct {
		behind   int
		expected int
	}{
		{0, 0},
		{1, 5},
		{4, 20},
		{18, 90},
		{40, 90},
	}

	for _, tt := range tests {
		result := VersionPenalty(tt.behind)
		if result != tt.expected {
			t.Errorf("VersionPenalty(%d) = %v, expected %v", tt.behind, result, tt.expected)
		}
	}
}

func TestApplyVersionPenalty(t *testing.T) {
	tests := []struct {
		score    float64
		behind   int
		expected float64
	}{
		{100, 0, 100},
		{100, 7, 65},
		{100, 11, 45},
		{100, 12, 40},
		{100, 18, 10},
		{100, 30, 10},
		{20, 18, 2},
		{1000, 18, 100},
		{1000, 7, 650},
		{99, 1, 94},
	}

	for _, tt := range tests {
		result := ApplyVersionPenalty(tt.score, tt.behind)
		if result != tt.expected {
			t.Errorf("ApplyVersionPenalty(%v, %d) = %v, expected %v", tt.score, tt.behind, result, tt.expected)
		}
	}
}

func TestBucketWindows(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if !InBucket(now.Add(-10*time.Minute), now) {
		t.Error("Bucket opened ten minutes ago should accept events")
	}
	if InBucket(now.Add(-61*time.Minute), now) {
		t.Error("Bucket opened 61 minutes ago should be closed")
	}
	if !IsNewMod(now.Add(-29*24*time.Hour), now) {
		t.Error("Mod created 29 days ago should count as new")
	}
	if IsNewMod(now.Add(-31*24*time.Hour), now) {
		t.Error("Mod created 31 days ago should not count as new")
	}
}
