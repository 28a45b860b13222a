package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azula-lang/azc/internal/backend"
	"github.com/azula-lang/azc/internal/config"
)

func TestParseOptions_FileOnly(t *testing.T) {
	o := parseOptions([]string{"main.azl"})
	assert.Equal(t, "main.azl", o.file)
	assert.False(t, o.release)
}

func TestParseOptions_AllFlags(t *testing.T) {
	o := parseOptions([]string{"--release", "--target", "x86_64", "--emit-llvm", "--config", "azula.yaml", "main.azl"})
	assert.True(t, o.release)
	assert.Equal(t, "x86_64", o.target)
	assert.True(t, o.emitLLVM)
	assert.Equal(t, "azula.yaml", o.configPath)
	assert.Equal(t, "main.azl", o.file)
}

func TestParseOptions_DanglingFlagIgnored(t *testing.T) {
	o := parseOptions([]string{"--target"})
	assert.Equal(t, "", o.target)
}

func TestParseOptions_FirstNonFlagWins(t *testing.T) {
	o := parseOptions([]string{"a.azl", "b.azl"})
	assert.Equal(t, "a.azl", o.file)
}

func TestResolveConfigPath_ExplicitOverridesDefault(t *testing.T) {
	o := options{configPath: "custom.yaml"}
	assert.Equal(t, "custom.yaml", resolveConfigPath(o))
}

func TestResolveConfigPath_DefaultsToManifest(t *testing.T) {
	assert.Equal(t, DefaultManifest, resolveConfigPath(options{}))
}

func TestOptLevel_ReleaseForcesSpeed(t *testing.T) {
	cfg := &config.Config{OptLevel: 0}
	got := optLevel(options{release: true}, cfg)
	assert.Equal(t, backend.OptSpeed, got)
}

func TestOptLevel_FallsBackToConfig(t *testing.T) {
	cfg := &config.Config{OptLevel: 2}
	got := optLevel(options{}, cfg)
	assert.Equal(t, backend.OptLevel(2), got)
}

func TestDiagnosticCount_NilContextIsZero(t *testing.T) {
	assert.Equal(t, 0, diagnosticCount(nil))
}

func TestSelectBackend_RunAlwaysPicksNull(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendGRPC, BackendAddr: "x:1"}
	be := selectBackend(cfg, true)
	assert.Equal(t, "null", be.Name())
}

func TestSelectBackend_BuildHonorsConfig(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendNull}
	be := selectBackend(cfg, false)
	assert.Equal(t, "null", be.Name())
}
