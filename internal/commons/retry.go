package commons

import (
	"errors"
	"math/rand"
	"time"

	"github.com/go-sql-driver/mysql"
)

// IsDeadlockError reports whether err is a MySQL deadlock (1213) or lock
// wait timeout (1205), the two conditions worth retrying.
func IsDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

// RetryBackoff returns the sleep before retry attempt n (1-based), with
// ±20% jitter so colliding transactions do not retry in lockstep.
func RetryBackoff(attempt int) time.Duration {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}
	idx := attempt - 1
	if idx >= len(backoffs) {
		idx = len(backoffs) - 1
	}
	base := backoffs[idx]
	if base == 0 {
		return 0
	}
	jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
	return jitter
}
