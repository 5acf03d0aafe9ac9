package shell

import (
	"fmt"
	"sort"
	"strings"
)

func cmdEcho(_ *Context, args []string) ([]string, error) {
	return []string{strings.Join(args, " ")}, nil
}

// cmdClear prints nothing; the session intercepts "clear" before dispatch.
func cmdClear(_ *Context, _ []string) ([]string, error) {
	return nil, nil
}

func cmdWhoami(ctx *Context, _ []string) ([]string, error) {
	return []string{envOr(ctx.Env, "USER", "unknown")}, nil
}

func cmdEnv(ctx *Context, _ []string) ([]string, error) {
	lines := make([]string, 0, len(ctx.Env))
	for k, v := range ctx.Env {
		lines = append(lines, k+"="+v)
	}
	sort.Strings(lines)
	return lines, nil
}

func cmdDate(ctx *Context, _ []string) ([]string, error) {
	return []string{ctx.Clock.CurrentDateTime()}, nil
}

func cmdInfo(ctx *Context, _ []string) ([]string, error) {
	return []string{
		"                    ",
		"    Hanna Skairipa  ",
		"    --------------  ",
		fmt.Sprintf("    User: %s", envOr(ctx.Env, "USER", "unknown")),
		"    Shell: bash-like",
		"    Terminal: hannaterm",
		"    Theme: Trans    ",
		fmt.Sprintf("    PWD: %s", ctx.Cwd),
		"                    ",
	}, nil
}

func envOr(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}
