package integration

import (
	"testing"

	"github.com/datasync/backend/internal/domain/integration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMapRecord(t *testing.T) {
	record := integration.Record{
		"customer_id": int64(100),
		"full_name":   "Integration User 0",
		"mail":        "integration_user0@example.com",
	}
	mappings := map[string]string{
		"customer_id": "id",
		"full_name":   "name",
		"mail":        "email",
	}

	patch, err := mapRecord(record, mappings, zap.NewNop())
	require.NoError(t, err)

	require.NotNil(t, patch.ID)
	assert.Equal(t, int64(100), *patch.ID)
	require.NotNil(t, patch.Name)
	assert.Equal(t, "Integration User 0", *patch.Name)
	require.NotNil(t, patch.Email)
	assert.Equal(t, "integration_user0@example.com", *patch.Email)
	assert.Nil(t, patch.Phone)
	assert.Nil(t, patch.Address)
}

func TestMapRecordTargetFieldCaseInsensitive(t *testing.T) {
	record := integration.Record{"n": "Acme"}
	patch, err := mapRecord(record, map[string]string{"n": "Name"}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, patch.Name)
	assert.Equal(t, "Acme", *patch.Name)
}

func TestMapRecordMissingAndNilSourceFields(t *testing.T) {
	record := integration.Record{"phone": nil}
	mappings := map[string]string{
		"phone":   "phone",
		"address": "address",
	}

	patch, err := mapRecord(record, mappings, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, patch.Phone)
	assert.Nil(t, patch.Address)
}

func TestMapRecordUnknownTargetIsSkipped(t *testing.T) {
	record := integration.Record{"x": "value", "n": "Acme"}
	mappings := map[string]string{
		"x": "nickname",
		"n": "name",
	}

	patch, err := mapRecord(record, mappings, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, patch.Name)
	assert.Equal(t, "Acme", *patch.Name)
}

func TestMapRecordInvalidIdentifier(t *testing.T) {
	record := integration.Record{"customer_id": "not-a-number"}
	_, err := mapRecord(record, map[string]string{"customer_id": "id"}, zap.NewNop())
	assert.Error(t, err)
}

func TestMapRecordCoercesNonStringValues(t *testing.T) {
	record := integration.Record{
		"customer_id": "100",
		"zip":         12345,
	}
	mappings := map[string]string{
		"customer_id": "id",
		"zip":         "address",
	}

	patch, err := mapRecord(record, mappings, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, patch.ID)
	assert.Equal(t, int64(100), *patch.ID)
	require.NotNil(t, patch.Address)
	assert.Equal(t, "12345", *patch.Address)
}
