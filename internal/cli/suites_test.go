package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDatasetName(t *testing.T) {
	raw := []byte(`{"dataset_name":null,"expectations":[]}`)

	out, err := applyDatasetName(raw, "")
	require.NoError(t, err)
	assert.Equal(t, raw, out, "empty name leaves the document untouched")

	out, err = applyDatasetName(raw, "ratings.csv")
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataset_name":"ratings.csv","expectations":[]}`, string(out))
}

func TestSuitesImportCreatesSuiteFromFile(t *testing.T) {
	clearClientEnv(t)
	fs := newFakeDQM(t)
	fs.on("addExpectationSuiteMutation", `{"addExpectationSuite":{"expectationSuite":{"id":"501","name":"Ratings checks","slug":"ratings-checks"}}}`)
	fs.on("updateExpectationSuite", `{"updateExpectationSuite":{"expectationSuite":{"id":"501","expectations":{"edges":[{"node":{"id":"c1","expectationType":"expect_column_to_exist","isActivated":true}}]}}}}`)
	setTestConfig(t, &Config{GraphQLEndpoint: fs.srv.URL, Token: "tok-stored"})

	configPath := filepath.Join(t.TempDir(), "ratings.json")
	doc := `{
  "dataset_name": null,
  "expectations": [
    {
      "expectation_type": "expect_column_to_exist",
      "kwargs": {"column": "age"}
    }
  ]
}`
	require.NoError(t, os.WriteFile(configPath, []byte(doc), 0644))

	prevName := suiteName
	t.Cleanup(func() { suiteName = prevName })
	suiteName = "Ratings checks"

	suitesImportCmd.SetContext(context.Background())
	require.NoError(t, suitesImportCmd.RunE(suitesImportCmd, []string{configPath}))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.Len(t, fs.requests, 2)

	add, ok := fs.requests[0].Variables["expectationSuite"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ratings checks", add["name"])
	assert.Equal(t, "ratings-checks", add["slug"])

	update, ok := fs.requests[1].Variables["updateExpectationSuite"].(map[string]any)
	require.True(t, ok)
	expectations, ok := update["expectations"].([]any)
	require.True(t, ok)
	require.Len(t, expectations, 1)
	entry := expectations[0].(map[string]any)
	assert.Equal(t, "expect_column_to_exist", entry["expectationType"])
	assert.JSONEq(t, `{"column":"age"}`, entry["expectationKwargs"].(string))
}

func TestSuitesImportRequiresName(t *testing.T) {
	clearClientEnv(t)
	setTestConfig(t, &Config{GraphQLEndpoint: "https://stored.example.com/graphql"})

	prevName := suiteName
	t.Cleanup(func() { suiteName = prevName })
	suiteName = ""

	suitesImportCmd.SetContext(context.Background())
	err := suitesImportCmd.RunE(suitesImportCmd, []string{"ratings.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a suite name is required")
}

func TestEvaluateRequiresExactlyOneTarget(t *testing.T) {
	clearClientEnv(t)
	setTestConfig(t, &Config{GraphQLEndpoint: "https://stored.example.com/graphql"})

	prevCheckpoint, prevSuite := evaluateCheckpoint, evaluateSuite
	t.Cleanup(func() { evaluateCheckpoint, evaluateSuite = prevCheckpoint, prevSuite })

	evaluateCmd.SetContext(context.Background())

	evaluateCheckpoint, evaluateSuite = "", ""
	err := runEvaluate(evaluateCmd, []string{"ratings.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --checkpoint and --suite")

	evaluateCheckpoint, evaluateSuite = "48", "235"
	err = runEvaluate(evaluateCmd, []string{"ratings.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --checkpoint and --suite")
}
