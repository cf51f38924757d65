package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"3s"`, want: 3 * time.Second},
		{name: "nanoseconds", in: `1500000000`, want: 1500 * time.Millisecond},
		{name: "null", in: `null`, want: 0},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var v struct {
		Timeout  Duration `yaml:"timeout"`
		Interval Duration `yaml:"interval"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("timeout: 250ms\ninterval: 2000000000\n"), &v))

	assert.Equal(t, 250*time.Millisecond, v.Timeout.Duration)
	assert.Equal(t, 2*time.Second, v.Interval.Duration)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(b))
}

func TestTimestamp_UnmarshalBackendLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-05-01T10:15:30"`, time.Date(2024, 5, 1, 10, 15, 30, 0, time.UTC)},
		{`"2024-05-01T10:15:30.125"`, time.Date(2024, 5, 1, 10, 15, 30, 125_000_000, time.UTC)},
		{`"2024-05-01T10:15:30Z"`, time.Date(2024, 5, 1, 10, 15, 30, 0, time.UTC)},
		{`"2024-05-01"`, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestamp_NullAndEmpty(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestTimestamp_RoundTrip(t *testing.T) {
	in := Timestamp{Time: time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Timestamp
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.Equal(out.Time))
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
