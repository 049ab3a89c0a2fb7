package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	original := version
	version = "1.2.3"
	defer func() { version = original }()

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant string
	}{
		{"full", []string{"version"}, []string{"artisan version 1.2.3", runtime.Version()}, ""},
		{"short", []string{"version", "--short"}, []string{"1.2.3\n"}, "artisan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() { versionShort = false }()

			out, err := execute(t, tt.args...)

			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			if tt.notWant != "" {
				assert.NotContains(t, out, tt.notWant)
			}
		})
	}
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "version", "extra")

	assert.Error(t, err)
}

func TestBuildDetails(t *testing.T) {
	details := buildDetails()

	assert.Contains(t, details, runtime.GOOS+"/"+runtime.GOARCH)
}
