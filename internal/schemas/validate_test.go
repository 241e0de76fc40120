package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOKRImport_Valid(t *testing.T) {
	doc := []byte(`{
		"objectives": [
			{
				"title": "Improve sales pipeline",
				"type": "team",
				"team_name": "sales",
				"key_results": [
					{
						"title": "Close 50 deals",
						"metric_type": "numeric",
						"start_value": 0,
						"target_value": 50,
						"unit": "deals"
					}
				]
			}
		]
	}`)

	assert.NoError(t, ValidateOKRImport(doc))
}

func TestValidateOKRImport_MissingRequiredFields(t *testing.T) {
	doc := []byte(`{
		"objectives": [
			{"title": "No type here"}
		]
	}`)

	err := ValidateOKRImport(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "objectives.0", ve.Errors[0].Field)
	assert.Contains(t, ve.Errors[0].Message, "type")
}

func TestValidateOKRImport_BadMetricType(t *testing.T) {
	doc := []byte(`{
		"objectives": [
			{
				"title": "Obj",
				"type": "company",
				"key_results": [
					{"title": "kr", "metric_type": "gauge", "start_value": 0, "target_value": 10}
				]
			}
		]
	}`)

	err := ValidateOKRImport(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, err.Error(), "metric_type")
}

func TestValidateOKRImport_EmptyObjectives(t *testing.T) {
	err := ValidateOKRImport([]byte(`{"objectives": []}`))
	require.Error(t, err)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestValidateOKRImport_MalformedJSON(t *testing.T) {
	err := ValidateOKRImport([]byte(`{not json`))
	require.Error(t, err)

	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestValidateJSONString_UnknownField(t *testing.T) {
	err := ValidateOKRImport([]byte(`{"objectives": [{"title": "x", "type": "team", "owner": "me"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner")
}
