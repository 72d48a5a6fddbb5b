package cli

import (
	"os"
	"strings"
)

// EnvPrefix prefixes the environment variables that provide flag defaults,
// e.g. POOLPROP_LOG_LEVEL for --log-level.
const EnvPrefix = "POOLPROP_"

// envDefaults collects the POOLPROP_* variables from the environment, keyed
// by flag name.
func envDefaults() map[string]string {
	out := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], EnvPrefix) {
			continue
		}
		flag := strings.ToLower(strings.TrimPrefix(pair[0], EnvPrefix))
		out[strings.ReplaceAll(flag, "_", "-")] = pair[1]
	}
	return out
}

func envOr(env map[string]string, flag, fallback string) string {
	if v, ok := env[flag]; ok && v != "" {
		return v
	}
	return fallback
}
