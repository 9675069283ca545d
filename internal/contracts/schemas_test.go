package contracts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEventAcceptsWellFormedBatch(t *testing.T) {
	body := []byte(`{
		"task_id": "0f2a7a9e-6f6e-4a52-9f6d-0f2a7a9e6f6e",
		"provider": "sunnyrentals",
		"records": [
			{
				"provider_ref": "SR-9913",
				"name": "Malaga-Centro",
				"city": "Malaga",
				"bedroom_count": 5,
				"amenities": ["gimnasio", "wifi"],
				"rooms": [{"name": "Room A", "price_text": "450€"}]
			}
		]
	}`)

	require.NoError(t, ValidateEvent("RawRecordsBatchEvent", "1.0.0", body))
}

func TestValidateEventRejectsMissingProvider(t *testing.T) {
	body := []byte(`{
		"task_id": "0f2a7a9e-6f6e-4a52-9f6d-0f2a7a9e6f6e",
		"records": []
	}`)

	err := ValidateEvent("RawRecordsBatchEvent", "1.0.0", body)
	require.Error(t, err)
	require.Contains(t, err.Error(), "validation failed")
}

func TestValidateEventUnknownSchema(t *testing.T) {
	err := ValidateEvent("NoSuchEvent", "1.0.0", []byte(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestValidateEventRejectsBrokenJSON(t *testing.T) {
	err := ValidateEvent("RawRecordsBatchEvent", "1.0.0", []byte(`{broken`))
	require.Error(t, err)
}
