// FILE: lixenwraith/cascade/environment_test.go
package cascade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noParent is a parent scope with nothing set.
func noParent(string) (string, bool) { return "", false }

func TestExtractAssignment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		found   bool
	}{
		{"Plain", "APP_ENV=staging\n", "staging", true},
		{"SpacesAroundEquals", "APP_ENV = prod\n", "prod", true},
		{"DoubleQuoted", `APP_ENV="qa"`, "qa", true},
		{"SingleQuoted", `APP_ENV='qa'`, "qa", true},
		{"TrailingWhitespace", "APP_ENV=dev   \t\n", "dev", true},
		{"FirstMatchWins", "APP_ENV=one\nAPP_ENV=two\n", "one", true},
		{"AmongOtherLines", "# comment\nDB=x\nAPP_ENV=test\nOTHER=y\n", "test", true},
		{"PrefixNotMatched", "MY_APP_ENV=nope\n", "", false},
		{"IndentedNotMatched", "  APP_ENV=nope\n", "", false},
		{"EmptyValue", "APP_ENV=\n", "", false},
		{"QuotesOnly", `APP_ENV=""`, "", false},
		{"Missing", "DB=x\n", "", false},
		{"EmptyContent", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractAssignment([]byte(tt.content), "APP_ENV")
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("PatternsCompiledOnce", func(t *testing.T) {
		first := patternsFor("CASCADE_CACHE_TEST")
		assert.Same(t, first, patternsFor("CASCADE_CACHE_TEST"))
		assert.NotSame(t, first, patternsFor("CASCADE_CACHE_OTHER"))

		for i := 0; i < 3; i++ {
			got, found := ExtractAssignment([]byte("CASCADE_CACHE_TEST=v\n"), "CASCADE_CACHE_TEST")
			assert.True(t, found)
			assert.Equal(t, "v", got)
		}
	})

	t.Run("NameIsLiteral", func(t *testing.T) {
		_, found := ExtractAssignment([]byte("AXB=1\n"), "A.B")
		assert.False(t, found)

		got, found := ExtractAssignment([]byte("A.B=1\n"), "A.B")
		assert.True(t, found)
		assert.Equal(t, "1", got)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, found := ExtractAssignment([]byte("=x\n"), "")
		assert.False(t, found)
	})
}

func TestResolver(t *testing.T) {
	t.Run("ExplicitScopeFirst", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env.local": "APP_ENV=fromfile\n"})

		r := Resolver{
			Explicit: map[string]string{"APP_ENV": "explicit"},
			Parent:   func(string) (string, bool) { return "parent", true },
		}
		env, err := r.Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, "explicit", env)
	})

	t.Run("ParentScopeSecond", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env.local": "APP_ENV=fromfile\n"})

		r := Resolver{
			Explicit: map[string]string{"APP_ENV": "  "},
			Parent:   func(string) (string, bool) { return "parent", true },
		}
		env, err := r.Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, "parent", env)
	})

	t.Run("LocalFileThird", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env.local": "DEBUG=1\nAPP_ENV = \"staging\"\n"})

		r := Resolver{Parent: noParent}
		env, err := r.Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, "staging", env)
	})

	t.Run("WhitespaceParentIgnored", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env.local": "APP_ENV=fromfile\n"})

		r := Resolver{Parent: func(string) (string, bool) { return " ", true }}
		env, err := r.Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, "fromfile", env)
	})

	t.Run("CustomVariable", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".env.local": "APP_ENV=wrong\nSTAGE=qa\n"})

		r := Resolver{EnvVar: "STAGE", Parent: noParent}
		env, err := r.Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, "qa", env)
	})

	t.Run("SkipPolicy", func(t *testing.T) {
		r := Resolver{Parent: noParent, Policy: PolicySkip}
		_, err := r.Resolve(t.TempDir())
		assert.ErrorIs(t, err, ErrEnvironmentUnset)
	})

	t.Run("ZeroValuePolicySkips", func(t *testing.T) {
		r := Resolver{Parent: noParent}
		_, err := r.Resolve(t.TempDir())
		assert.ErrorIs(t, err, ErrEnvironmentUnset)
	})

	t.Run("FallbackPolicy", func(t *testing.T) {
		r := Resolver{Parent: noParent, Policy: PolicyFallback}
		env, err := r.Resolve(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultEnvironment, env)

		r.Default = "local"
		env, err = r.Resolve(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "local", env)
	})

	t.Run("ProcessEnvironmentDefault", func(t *testing.T) {
		t.Setenv("CASCADE_TEST_STAGE", "from-process")

		r := Resolver{EnvVar: "CASCADE_TEST_STAGE"}
		env, err := r.Resolve(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "from-process", env)
	})

	t.Run("NotCached", func(t *testing.T) {
		dir := t.TempDir()
		r := Resolver{Parent: noParent}

		_, err := r.Resolve(dir)
		require.ErrorIs(t, err, ErrEnvironmentUnset)

		writeFiles(t, dir, map[string]string{".env.local": "APP_ENV=later\n"})
		env, err := r.Resolve(dir)
		require.NoError(t, err)
		assert.Equal(t, "later", env)
	})
}

func TestEnvPolicyUnmarshalText(t *testing.T) {
	var p EnvPolicy
	require.NoError(t, p.UnmarshalText([]byte(" Fallback ")))
	assert.Equal(t, PolicyFallback, p)

	require.NoError(t, p.UnmarshalText(nil))
	assert.Equal(t, PolicySkip, p)

	assert.Error(t, p.UnmarshalText([]byte("default")))
	assert.Equal(t, "skip", EnvPolicy("").String())
}

func TestReadMarker(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".environment": "  production\n"})

		env, err := ReadMarker(dir, "")
		require.NoError(t, err)
		assert.Equal(t, "production", env)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := ReadMarker(t.TempDir(), "")
		assert.ErrorIs(t, err, ErrEnvironmentNotConfigured)
		assert.NotErrorIs(t, err, ErrEnvironmentEmpty)
	})

	t.Run("Empty", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{".environment": " \n\t\n"})

		_, err := ReadMarker(dir, "")
		assert.ErrorIs(t, err, ErrEnvironmentEmpty)
		assert.NotErrorIs(t, err, ErrEnvironmentNotConfigured)
	})

	t.Run("CustomMarker", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{"STAGE": "qa"})

		env, err := ReadMarker(dir, "STAGE")
		require.NoError(t, err)
		assert.Equal(t, "qa", env)
	})

	t.Run("MarkerIsDirectory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".environment"), 0755))

		_, err := ReadMarker(dir, "")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEnvironmentNotConfigured)
		assert.NotErrorIs(t, err, ErrEnvironmentEmpty)
	})
}
