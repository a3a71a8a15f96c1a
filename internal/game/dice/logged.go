package dice

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creaturebattle/internal/config"
)

// LoggedSource wraps a Source and logs every draw at debug level.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource creates a LoggedSource that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the bound and result.
//
// Precondition: n > 0.
func (l *LoggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("random draw",
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// NewSourceFromConfig builds the tie-break Source selected by cfg, wrapped in
// a LoggedSource.
//
// Precondition: cfg.TieBreak is "crypto" or "seeded"; logger must be non-nil.
// Postcondition: Returns a non-nil Source or an error for an unknown tie-break kind.
func NewSourceFromConfig(cfg config.BattleConfig, logger *zap.Logger) (Source, error) {
	var src Source
	switch cfg.TieBreak {
	case "crypto":
		src = NewCryptoSource()
	case "seeded":
		src = NewSeededSource(cfg.Seed)
	default:
		return nil, fmt.Errorf("dice: unknown tie_break %q", cfg.TieBreak)
	}
	return NewLoggedSource(src, logger), nil
}
