package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", in: `"15m"`, want: 15 * time.Minute},
		{name: "seconds string", in: `"90s"`, want: 90 * time.Second},
		{name: "integer nanoseconds", in: `60000000000`, want: time.Minute},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bad type", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON_RoundTrip(t *testing.T) {
	d := Duration{Duration: 30 * time.Minute}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"30m0s"`, string(b))

	var back Duration
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d.Duration, back.Duration)
}
