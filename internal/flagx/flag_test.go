package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPick(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "flag with separate value",
			args:  []string{"-d", "postgres", "-x", "1"},
			names: []string{"-d"},
			want:  []string{"-d", "postgres"},
		},
		{
			name:  "equals form kept whole",
			args:  []string{"--endpoint=https://id.example.com", "-x", "1"},
			names: []string{"--endpoint"},
			want:  []string{"--endpoint=https://id.example.com"},
		},
		{
			name:  "unknown flags dropped",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"-d"},
			want:  []string{},
		},
		{
			name:  "trailing flag without value",
			args:  []string{"-d"},
			names: []string{"-d"},
			want:  []string{"-d"},
		},
		{
			name:  "next dash token is not a value",
			args:  []string{"-d", "-k"},
			names: []string{"-d"},
			want:  []string{"-d"},
		},
		{
			name:  "multiple wanted flags preserve order",
			args:  []string{"-k", "secret", "-d", "mongo", "--other", "x"},
			names: []string{"-d", "-k"},
			want:  []string{"-k", "secret", "-d", "mongo"},
		},
		{
			name:  "repeated flag kept each time",
			args:  []string{"-d", "memory", "-d", "postgres"},
			names: []string{"-d"},
			want:  []string{"-d", "memory", "-d", "postgres"},
		},
		{
			name:  "empty input",
			args:  []string{},
			names: []string{"-d"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pick(tt.args, tt.names...))
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", ConfigFilePath())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", ConfigFilePath())
	})

	t.Run("unrelated flags ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, ConfigFilePath())
	})

	t.Run("last value wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", ConfigFilePath())
	})
}
