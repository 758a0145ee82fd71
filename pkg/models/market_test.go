package models_test

import (
	"testing"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

func TestFormatVolume(t *testing.T) {
	cases := []struct {
		volume int64
		want   string
	}{
		{900, "$900"},
		{1000, "$1K"},
		{33000, "$33K"},
		{820000, "$820K"},
		{1200000, "$1.2M"},
		{458000000, "$458.0M"},
		{2500000000, "$2.5B"},
	}
	for _, tc := range cases {
		if got := models.FormatVolume(tc.volume); got != tc.want {
			t.Errorf("FormatVolume(%d) = %q, want %q", tc.volume, got, tc.want)
		}
	}
}
