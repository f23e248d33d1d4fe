package repositories

import (
	"fmt"

	"fleet-allocation-service/internal/domain"
)

// Column names for the five checkpoint values on allocation_history rows.
var checkpointColumns = map[domain.Checkpoint]string{
	domain.Checkpoint1140am: "cp_1140am",
	domain.Checkpoint140pm:  "cp_140pm",
	domain.Checkpoint340pm:  "cp_340pm",
	domain.Checkpoint540pm:  "cp_540pm",
	domain.Checkpoint740pm:  "cp_740pm",
}

func checkpointColumn(cp domain.Checkpoint) (string, error) {
	col, ok := checkpointColumns[cp]
	if !ok {
		return "", fmt.Errorf("no column for checkpoint %q", cp)
	}
	return col, nil
}
