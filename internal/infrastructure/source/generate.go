package source

import (
	"fmt"
	"strconv"
)

// defaultRecordCount is used when the source config carries no count
const defaultRecordCount = 10

// generateRecords builds the deterministic synthetic record sequence. Record
// i (0-indexed) has identifier 100+i, name "Integration User {i}", email
// "integration_user{i}@example.com", a zero-padded phone suffix and the
// address "{i} Integration Street".
func generateRecords(config map[string]any) ([]Record, error) {
	count := defaultRecordCount
	if raw, ok := config["count"]; ok {
		parsed, err := strconv.Atoi(fmt.Sprint(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid count in source config: %w", err)
		}
		count = parsed
	}
	// A negative count yields no records rather than an error
	if count < 0 {
		count = 0
	}

	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, Record{
			"id":      int64(100 + i),
			"name":    fmt.Sprintf("Integration User %d", i),
			"email":   fmt.Sprintf("integration_user%d@example.com", i),
			"phone":   fmt.Sprintf("555-%04d", i),
			"address": fmt.Sprintf("%d Integration Street", i),
		})
	}
	return records, nil
}
