package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged pool rolling.
// All rolls are logged at debug level with the title, dice values, and successes.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollPool rolls p and logs the result at debug level.
//
// Postcondition: result logged; see RollPool for result shape.
func (r *Roller) RollPool(title string, p Pool) PoolResult {
	result := RollPool(title, p, r.src)
	r.logger.Debug("dice roll",
		zap.String("title", title),
		zap.Ints("basic", values(result.Basic)),
		zap.Ints("advanced", values(result.Advanced)),
		zap.Int("successes", result.Successes()),
		zap.Int("rage_failures", result.Failures()),
	)
	return result
}

// RollExpr parses a pool expression such as "4b2r" and rolls it.
//
// Postcondition: Returns a PoolResult or a parse error.
func (r *Roller) RollExpr(expr string) (PoolResult, error) {
	p, err := ParsePool(expr)
	if err != nil {
		return PoolResult{}, err
	}
	return r.RollPool(expr, p), nil
}
