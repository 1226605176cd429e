package register

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefixes for the two transaction registers.
const (
	LoanPrefix        = "PMJ"
	MaintenancePrefix = "PRW"
)

// Number produces a human-readable register number of the shape
// PREFIX-<year>-<8-char-uppercase-token>. Uniqueness rests on token entropy;
// collisions are not checked.
func Number(prefix string) string {
	token := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().Year(), token)
}
