package pair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "dataset_name": null,
  "expectations": [
    {
      "expectation_type": "expect_column_to_exist",
      "kwargs": {
        "column": "age"
      }
    },
    {
      "expectation_type": "expect_table_row_count_to_be_between",
      "kwargs": {
        "max_value": 110,
        "min_value": 1
      }
    }
  ],
  "meta": {
    "great_expectations.__version__": "0.3.0"
  }
}`

func TestParseExpectationsConfig(t *testing.T) {
	cfg, err := ParseExpectationsConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Nil(t, cfg.DatasetName)
	assert.Equal(t, "0.3.0", cfg.Meta["great_expectations.__version__"])
	require.Len(t, cfg.Expectations, 2)
	assert.Equal(t, "expect_column_to_exist", cfg.Expectations[0].ExpectationType)
	assert.Equal(t, map[string]any{"column": "age"}, cfg.Expectations[0].Kwargs)
}

func TestParseExpectationsConfigRejectsGarbage(t *testing.T) {
	_, err := ParseExpectationsConfig([]byte("{nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExpectationsConfigRoundTrip(t *testing.T) {
	cfg, err := ParseExpectationsConfig([]byte(sampleConfig))
	require.NoError(t, err)

	out, err := cfg.AsJSONString()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, out)
}

func TestExpectationInputsSerializeKwargs(t *testing.T) {
	cfg := ExpectationsConfig{
		Expectations: []ExpectationConfigEntry{
			{ExpectationType: "expect_column_to_exist", Kwargs: map[string]any{"column": "age"}},
			{ExpectationType: "expect_column_to_exist", Kwargs: nil},
		},
	}
	inputs, err := cfg.expectationInputs()
	require.NoError(t, err)

	require.Len(t, inputs, 2)
	assert.JSONEq(t, `{"column":"age"}`, inputs[0].ExpectationKwargs)
	assert.Equal(t, "null", inputs[1].ExpectationKwargs)
}

func TestExpectationEntriesFiltersInactive(t *testing.T) {
	expectations := []Expectation{
		{ID: "1", ExpectationType: "a", ExpectationKwargs: `{"x":1}`, IsActivated: true},
		{ID: "2", ExpectationType: "b", ExpectationKwargs: `{"y":2}`, IsActivated: false},
	}

	entries, err := expectationEntries(expectations, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ExpectationType)

	entries, err = expectationEntries(expectations, true)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExpectationEntriesRejectsCorruptKwargs(t *testing.T) {
	_, err := expectationEntries([]Expectation{
		{ID: "1", ExpectationType: "a", ExpectationKwargs: "{broken", IsActivated: true},
	}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)
}
