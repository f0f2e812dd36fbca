package cmds

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTime(t *testing.T) {
	tests := []struct {
		name    string
		time    string
		wantErr bool
	}{
		{"hours and minutes", "03:00", false},
		{"with seconds", "23:59:59", false},
		{"empty", "", true},
		{"hours only", "3", true},
		{"too late", "24:00", true},
		{"text", "morning", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTime(tt.time)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFprintln(t *testing.T) {
	var buf bytes.Buffer
	Fprintln(&buf, "a", 1)
	Fprintf(&buf, "%s-%d", "b", 2)
	assert.Equal(t, "a 1\nb-2", buf.String())

	assert.NotPanics(t, func() { Fprintln(nil, "skipped") })
}
