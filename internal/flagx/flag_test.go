package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-d", "wallet.db", "-a", "http://localhost:8080"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "wallet.db"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.yaml", "-a", "http://gw"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.yaml"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "dash-prefixed token is not taken as value",
			args:         []string{"-c", "-l", "debug"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "several allowed flags keep their order",
			args:         []string{"-a", "http://gw:8080", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", "http://gw:8080", "-c", "conf.json"},
		},
		{
			name:         "repeated flag preserved",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "/etc/upi.json"}
		assert.Equal(t, "/etc/upi.json", ConfigFileFlag())
	})

	t.Run("long", func(t *testing.T) {
		os.Args = []string{"bin", "-a", "http://gw", "-config", "/etc/upi.yaml"}
		assert.Equal(t, "/etc/upi.yaml", ConfigFileFlag())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"bin", "-a", "http://gw"}
		assert.Empty(t, ConfigFileFlag())
	})

	t.Run("last wins", func(t *testing.T) {
		os.Args = []string{"bin", "-c", "1.json", "-config", "2.json"}
		assert.Equal(t, "2.json", ConfigFileFlag())
	})
}

func TestEnvFileFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"bin", "-e", "dev.env", "-c", "x.json"}
	assert.Equal(t, "dev.env", EnvFileFlag())

	os.Args = []string{"bin"}
	assert.Empty(t, EnvFileFlag())
}
