package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftgen/internal/config"
)

func TestTags_CountsCasesPerTag(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runGenerate(t, config.Default())

	var buf bytes.Buffer
	require.NoError(t, RunTags(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "@auth    4", lines[0])
	assert.Equal(t, "@strong  1", lines[1])
}

func TestTrimTag(t *testing.T) {
	assert.Equal(t, "smoke", trimTag("@smoke"))
	assert.Equal(t, "smoke", trimTag(" smoke "))
}
