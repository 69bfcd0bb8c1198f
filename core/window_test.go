package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramebufferRatio(t *testing.T) {
	cases := []struct {
		name       string
		fbW, fbH   int
		winW, winH int
		want       float32
	}{
		{"pixels equal units", 1280, 720, 1280, 720, 1},
		{"retina", 2560, 1600, 1280, 800, 2},
		{"three times", 3840, 2160, 1280, 720, 3},
		{"portrait", 600, 1600, 300, 800, 2},
		{"minimised", 0, 0, 0, 0, 1},
		{"zero height window", 1280, 0, 1280, 0, 1},
	}
	for _, tc := range cases {
		got := FramebufferRatio(tc.fbW, tc.fbH, tc.winW, tc.winH)
		assert.InDelta(t, tc.want, got, 1e-6, tc.name)
	}
}
