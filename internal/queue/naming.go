package queue

import (
	"fmt"

	"github.com/hyperdrip/hyperdrip/internal/models"
)

// NameFor returns the date-partitioned queue name for a civil date. testMode
// swaps in the "test-" prefix so integration tests never touch a production
// queue name sharing the same backend.
func NameFor(day models.CivilDate, testMode bool) string {
	if testMode {
		return fmt.Sprintf("test-drip-messages-%s", day.String())
	}
	return fmt.Sprintf("drip-messages-%s", day.String())
}
