package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "role=fleet-instance,service=web-svc",
		Selector("role", "fleet-instance", "service", "web-svc"))
	assert.Equal(t, "role=network-site", Selector("role", "network-site"))
	assert.Equal(t, "", Selector())
}

func TestSelector_OddPairsPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { Selector("role") })
}

func TestMatches(t *testing.T) {
	t.Parallel()
	set := map[string]string{"role": "fleet-instance", "service": "web-svc"}

	tests := []struct {
		name     string
		selector string
		want     bool
	}{
		{"full match", "role=fleet-instance,service=web-svc", true},
		{"subset match", "role=fleet-instance", true},
		{"empty selector", "", true},
		{"value mismatch", "role=availability-set", false},
		{"missing key", "zone=eu-central", false},
		{"malformed term", "role", false},
		{"spaces tolerated", "role=fleet-instance, service=web-svc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Matches(set, tt.selector))
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	got := Merge(
		map[string]string{"role": "fleet-instance", "service": "a"},
		map[string]string{"service": "b"},
	)
	assert.Equal(t, map[string]string{"role": "fleet-instance", "service": "b"}, got)
}
