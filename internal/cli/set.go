package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/cascade"
)

func newSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <role> <path>=<value>",
		Short: "Write one value into a layer file",
		Long: `Write one value into the file of the given layer, creating it if needed.

Structured roles (base, environment, local) take a slash path such as
db/connection/default/host; the value is read as a YAML scalar, so 8080 is
stored as a number. Dotenv roles (env-default, env-local, env-environment,
env-environment-local) take a variable name; only that variable's line is
rewritten, so comments and ${VAR} references elsewhere in the file stay as
they are.

Roles listed in CASCADE_PROTECT are refused (strict) or skipped with a
warning (silent), per CASCADE_PROTECT_MODE.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			roles, err := cascade.ParseRoles(args[:1])
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				return fmt.Errorf("role is required")
			}
			role := roles[0]

			path, value, ok := strings.Cut(args[1], "=")
			path = strings.TrimSpace(path)
			if !ok || path == "" {
				return fmt.Errorf("expected <path>=<value>, got %q", args[1])
			}

			guard, err := a.builder().BuildGuard()
			if err != nil {
				return err
			}

			if strings.HasPrefix(string(role), "env-") {
				return a.setEnv(guard, role, path, value)
			}
			return a.setDocument(guard, role, path, value)
		},
	}
}

func (a *app) setDocument(guard *cascade.WriteGuard, role cascade.Role, path, value string) error {
	loader, err := a.builder().BuildConfig()
	if err != nil {
		return err
	}

	env := ""
	if role == cascade.RoleEnvironment {
		if env, err = cascade.ReadMarker(a.configDir, a.settings.Marker); err != nil {
			return err
		}
	}

	target, err := findCandidate(loader.Candidates(a.configDir, env), role)
	if err != nil {
		return err
	}

	doc, err := loader.ReadLayer(target)
	if err != nil {
		return err
	}
	doc.Set(path, parseScalar(value))

	if err := guard.SaveDocument(target, doc); err != nil {
		return err
	}
	if !guard.Protects(role) {
		a.log.Info().Str("file", target.Path).Str("path", path).Msg("value written")
	}
	return nil
}

func (a *app) setEnv(guard *cascade.WriteGuard, role cascade.Role, key, value string) error {
	loader, err := a.builder().BuildDotEnv()
	if err != nil {
		return err
	}

	target, err := findCandidate(loader.Candidates(a.basePath), role)
	if err != nil {
		if role == cascade.RoleEnvEnvironment || role == cascade.RoleEnvEnvironmentLocal {
			return fmt.Errorf("%w: %s", cascade.ErrEnvironmentUnset, err)
		}
		return err
	}

	if err := guard.SetEnvValue(target, key, value); err != nil {
		return err
	}
	if !guard.Protects(role) {
		a.log.Info().Str("file", target.Path).Str("key", key).Msg("value written")
	}
	return nil
}

func findCandidate(files []cascade.Candidate, role cascade.Role) (cascade.Candidate, error) {
	for _, c := range files {
		if c.Role == role {
			return c, nil
		}
	}
	return cascade.Candidate{}, fmt.Errorf("no %s layer for the current environment", role)
}

// parseScalar reads value as a YAML scalar, keeping the raw string when it is
// not one.
func parseScalar(value string) any {
	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil {
		return value
	}
	switch v.(type) {
	case nil, map[string]any, []any:
		return value
	default:
		return v
	}
}
