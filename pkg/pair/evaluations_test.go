package pair

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEvaluation(t *testing.T) {
	f := newFakeDQM(t)
	f.on("addEvaluationMutation", `{"addEvaluation":{"evaluation":{
		"id":"900",
		"dataset":{"id":"10"},
		"checkpoint":{"id":"77"},
		"results":{"edges":[]},
		"status":"created"
	}}}`)

	c := f.client(t)
	evaluation, err := c.AddEvaluation(context.Background(), "10", "77")
	require.NoError(t, err)

	assert.Equal(t, "900", evaluation.ID)
	assert.Equal(t, "created", evaluation.Status)
	require.NotNil(t, evaluation.Dataset)
	assert.Equal(t, "10", evaluation.Dataset.ID)
	assert.Empty(t, evaluation.Results)

	in := input(t, f.variables(t, 0), "evaluation")
	assert.Equal(t, "10", in["datasetId"])
	assert.Equal(t, "77", in["checkpointId"])
}

func TestGetEvaluationDecodesResults(t *testing.T) {
	f := newFakeDQM(t)
	f.on("evaluationQuery", `{"evaluation":{
		"id":"900",
		"status":"completed",
		"results":{"edges":[
			{"node":{"id":"r1","success":true,"expectationType":"expect_column_to_exist","evaluationId":900}},
			{"node":{"id":"r2","success":false,"raisedException":true,"exceptionTraceback":"boom"}}
		]},
		"updatedAt":"2019-03-07T22:10:41"
	}}`)

	c := f.client(t)
	evaluation, err := c.GetEvaluation(context.Background(), "900")
	require.NoError(t, err)

	assert.Equal(t, "completed", evaluation.Status)
	require.Len(t, evaluation.Results, 2)
	assert.True(t, evaluation.Results[0].Success)
	assert.Equal(t, "900", evaluation.Results[0].EvaluationID)
	assert.True(t, evaluation.Results[1].RaisedException)
	assert.Equal(t, "boom", evaluation.Results[1].ExceptionTraceback)
}

func TestUpdateEvaluationRequiresField(t *testing.T) {
	f := newFakeDQM(t)
	c := f.client(t)

	_, err := c.UpdateEvaluation(context.Background(), "900", EvaluationUpdate{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, f.captured())
}

func TestUpdateEvaluation(t *testing.T) {
	f := newFakeDQM(t)
	f.on("updateEvaluation", `{"updateEvaluation":{"evaluation":{
		"id":"900","status":"completed"
	}}}`)

	c := f.client(t)
	evaluation, err := c.UpdateEvaluation(context.Background(), "900", EvaluationUpdate{
		Status: "completed",
		Results: []map[string]any{
			{"success": true, "expectationType": "expect_column_to_exist"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", evaluation.Status)

	in := input(t, f.variables(t, 0), "updateEvaluation")
	assert.Equal(t, "900", in["id"])
	assert.Equal(t, "completed", in["status"])
	results := in["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, true, results[0].(map[string]any)["success"])
}

func TestEvaluateSuiteOnReader(t *testing.T) {
	upload := newUploadTarget(t)
	presigned := upload.srv.URL + "/bucket?key=k"

	f := newFakeDQM(t)
	// The suite is fetched first; the id the server reports wins over the
	// one the caller passed.
	f.on("expectationSuiteQuery", `{"expectationSuite":{"id":"canonical-5"}}`)
	f.on("addDatasetMutation", fmt.Sprintf(
		`{"addDataset":{"dataset":{"id":"10","s3Url":%q}}}`, presigned))
	f.on("datasetQuery", `{"dataset":{"id":"10","filename":"ratings.csv"}}`)
	f.on("addEvaluationMutation", `{"addEvaluation":{"evaluation":{"id":"900","status":"created"}}}`)

	c := f.client(t)
	evaluation, err := c.EvaluateSuiteOnReader(context.Background(), "5",
		bytes.NewReader([]byte("a,b\n1,2\n")), "7", "ratings.csv")
	require.NoError(t, err)
	assert.Equal(t, "900", evaluation.ID)

	reqs := f.captured()
	require.Len(t, reqs, 4)
	assert.Contains(t, reqs[0].Query, "expectationSuiteQuery")
	assert.Contains(t, reqs[3].Query, "addEvaluationMutation")

	in := input(t, f.variables(t, 3), "evaluation")
	assert.Equal(t, "10", in["datasetId"])
	assert.Equal(t, "canonical-5", in["checkpointId"])

	upload.mu.Lock()
	defer upload.mu.Unlock()
	assert.Equal(t, "a,b\n1,2\n", string(upload.content))
}

func TestEvaluateSuiteOnRecords(t *testing.T) {
	upload := newUploadTarget(t)
	presigned := upload.srv.URL + "/bucket?key=k"

	f := newFakeDQM(t)
	f.on("expectationSuiteQuery", `{"expectationSuite":{"id":"5"}}`)
	f.on("addDatasetMutation", fmt.Sprintf(
		`{"addDataset":{"dataset":{"id":"10","s3Url":%q}}}`, presigned))
	f.on("datasetQuery", `{"dataset":{"id":"10"}}`)
	f.on("addEvaluationMutation", `{"addEvaluation":{"evaluation":{"id":"901"}}}`)

	c := f.client(t)
	evaluation, err := c.EvaluateSuiteOnRecords(context.Background(), "5", [][]string{
		{"name", "grade"},
		{"ada", "A"},
	}, "7", "grades.csv")
	require.NoError(t, err)
	assert.Equal(t, "901", evaluation.ID)

	upload.mu.Lock()
	defer upload.mu.Unlock()
	assert.Equal(t, "name,grade\nada,A\n", string(upload.content))
	assert.Equal(t, "grades.csv", upload.filename)
}

func TestEvaluateCheckpointOnReader(t *testing.T) {
	upload := newUploadTarget(t)
	presigned := upload.srv.URL + "/bucket?key=k"

	f := newFakeDQM(t)
	f.on("checkpointQuery", `{"checkpoint":{"id":"77"}}`)
	f.on("addDatasetMutation", fmt.Sprintf(
		`{"addDataset":{"dataset":{"id":"10","s3Url":%q}}}`, presigned))
	f.on("datasetQuery", `{"dataset":{"id":"10"}}`)
	f.on("addEvaluationMutation", `{"addEvaluation":{"evaluation":{"id":"902"}}}`)

	c := f.client(t)
	evaluation, err := c.EvaluateCheckpointOnReader(context.Background(), "77",
		bytes.NewReader([]byte("a\n1\n")), "7", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "902", evaluation.ID)

	in := input(t, f.variables(t, 3), "evaluation")
	assert.Equal(t, "77", in["checkpointId"])
}
