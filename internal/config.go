package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Config is shared by the auxiliary binaries (viewer, seed). The server
// carries its own richer config in cmd.
type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	DebugPort         int           `env:"DEBUG_PORT,default=8081"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// WordList splits a comma separated env value into trimmed entries.
func WordList(raw string) []string {
	words := lo.Map(strings.Split(raw, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Filter(words, func(w string, _ int) bool { return w != "" })
}
