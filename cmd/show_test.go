package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftgen/internal/config"
	"github.com/chriserin/ftgen/internal/db"
)

func runShow(t *testing.T, ref string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, config.Default(), ref))
	return buf.String()
}

func TestShow_ByID(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runGenerate(t, config.Default())

	out := runShow(t, "#2")

	assert.Contains(t, out, "#2  PasswordRules_Weak_Variant0")
	assert.Contains(t, out, "feature: features/login.feature")
	assert.Contains(t, out, "output: generated/login.feature.cs")
	assert.Contains(t, out, "method: PasswordRules")
	assert.Contains(t, out, "examples: Weak")
	assert.Contains(t, out, `<password>: "abc"`)
	assert.Contains(t, out, "Given the password abc")
	assert.Contains(t, out, "Then login is rejected")
}

func TestShow_ByName(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runGenerate(t, config.Default())

	out := runShow(t, "UserLogsIn")

	assert.Contains(t, out, "#1  UserLogsIn")
	assert.Contains(t, out, "scenario: User logs in")
	assert.Contains(t, out, "tags: @auth")
	assert.Contains(t, out, "When they log in")
	assert.NotContains(t, out, "examples:")
}

func TestShow_NotFound(t *testing.T) {
	inTempDir(t)
	runInit(t)

	err := RunShow(&bytes.Buffer{}, config.Default(), "99")
	assert.ErrorIs(t, err, db.ErrCaseNotFound)
}

func TestShow_FeatureChangedSinceGenerate(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)
	runGenerate(t, config.Default())
	writeFeature(t, "features/login.feature", "@auth\nFeature: Login\n  Scenario: Something else\n    Given x\n")

	err := RunShow(&bytes.Buffer{}, config.Default(), "UserLogsIn")

	assert.ErrorIs(t, err, db.ErrCaseNotFound)
	assert.ErrorContains(t, err, "ftgen generate")
}
