// FILE: lixenwraith/cascade/convenience_test.go
package cascade

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetAfter removes keys the test mirrors into the process environment.
func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, os.Unsetenv(k))
	}
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestBootstrap(t *testing.T) {
	t.Run("MirrorsIntoProcess", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		unsetAfter(t, "CASCADE_BOOT_A", "CASCADE_BOOT_B")

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			".env":         "CASCADE_BOOT_A=1\n",
			".env.local":   "CASCADE_BOOT_A=2\nAPP_ENV=staging\n",
			".env.staging": "CASCADE_BOOT_B=3\n",
		})

		res := Bootstrap(dir)
		require.NoError(t, res.Err)
		assert.Equal(t, "staging", res.Environment)
		assert.Equal(t, "2", os.Getenv("CASCADE_BOOT_A"))
		assert.Equal(t, "3", os.Getenv("CASCADE_BOOT_B"))
	})

	t.Run("NoDotEnv", func(t *testing.T) {
		res := Bootstrap(t.TempDir())
		assert.NoError(t, res.Err)
		assert.Empty(t, res.Values)
	})

	t.Run("InvalidSettingsFallBack", func(t *testing.T) {
		t.Setenv("CASCADE_ENV_POLICY", "bogus")
		unsetAfter(t, "CASCADE_BOOT_C")

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env": "CASCADE_BOOT_C=ok\n"})

		res := Bootstrap(dir)
		require.NoError(t, res.Err)
		assert.Equal(t, "ok", os.Getenv("CASCADE_BOOT_C"))
	})

	t.Run("ParseErrorNotRaised", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env": "BROKEN=\"unterminated\n"})

		var res *DotEnvResult
		require.NotPanics(t, func() { res = Bootstrap(dir) })
		assert.ErrorIs(t, res.Err, ErrConfigParse)
	})

	t.Run("NoMirrorSetting", func(t *testing.T) {
		t.Setenv("CASCADE_NO_MIRROR", "true")
		unsetAfter(t, "CASCADE_BOOT_D")

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env": "CASCADE_BOOT_D=1\n"})

		res := Bootstrap(dir)
		require.NoError(t, res.Err)
		assert.Equal(t, "1", res.Values["CASCADE_BOOT_D"])
		_, set := os.LookupEnv("CASCADE_BOOT_D")
		assert.False(t, set)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			".environment": "dev",
			"base.yaml":    "db:\n  host: a\n  port: 5432\n",
			"dev.yaml":     "db:\n  host: b\n",
		})

		doc, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "b", doc.StringOr("db/host", ""))
		assert.Equal(t, "5432", doc.StringOr("db/port", ""))

		assert.NotPanics(t, func() { MustLoadConfig(dir) })
	})

	t.Run("SettingsApplied", func(t *testing.T) {
		t.Setenv("CASCADE_MARKER", "STAGE")
		t.Setenv("CASCADE_STRICT_NAMES", "true")

		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"STAGE": "../x", "base.yaml": "a: 1\n"})

		_, err := LoadConfig(dir)
		assert.ErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("Failure", func(t *testing.T) {
		dir := t.TempDir()

		_, err := LoadConfig(dir)
		assert.ErrorIs(t, err, ErrEnvironmentNotConfigured)
		assert.Panics(t, func() { MustLoadConfig(dir) })
	})
}
