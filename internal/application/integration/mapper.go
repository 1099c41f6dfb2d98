package integration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/integration"
	"go.uber.org/zap"
)

// mapRecord turns a raw source record into a customer patch using the
// source-field to target-field mapping table. Fields absent from the record,
// carrying nil, or mapped to an unknown target stay nil on the patch. A
// malformed identifier fails just this record.
func mapRecord(record integration.Record, mappings map[string]string, logger *zap.Logger) (customer.Patch, error) {
	var patch customer.Patch

	for sourceField, targetField := range mappings {
		raw, ok := record[sourceField]
		if !ok || raw == nil {
			continue
		}

		switch strings.ToLower(targetField) {
		case "id":
			id, err := strconv.ParseInt(fmt.Sprint(raw), 10, 64)
			if err != nil {
				return customer.Patch{}, fmt.Errorf("invalid identifier %q in field %q: %w", fmt.Sprint(raw), sourceField, err)
			}
			patch.ID = &id
		case "name":
			v := fmt.Sprint(raw)
			patch.Name = &v
		case "email":
			v := fmt.Sprint(raw)
			patch.Email = &v
		case "phone":
			v := fmt.Sprint(raw)
			patch.Phone = &v
		case "address":
			v := fmt.Sprint(raw)
			patch.Address = &v
		default:
			logger.Warn("unknown target field in mapping",
				zap.String("source_field", sourceField),
				zap.String("target_field", targetField))
		}
	}

	return patch, nil
}
