package pair

import (
	"context"

	"github.com/tidwall/gjson"
)

const operationRunQuery = `
query operationRunQuery($id: ID!) {
  operationRun(id: $id) {
    id
    operationType
    status
    summaryObj
    startedAt
    finishedAt
    organization {
      id
    }
  }
}`

const addOperationRunMutation = `
mutation addOperationRunMutation($operationRun: AddOperationRunInput!) {
  addOperationRun(input: $operationRun) {
    operationRun {
      id
      operationType
      status
      startedAt
    }
  }
}`

const updateOperationRunMutation = `
mutation updateOperationRunMutation($operationRun: UpdateOperationRunInput!) {
  updateOperationRun(input: $operationRun) {
    operationRun {
      id
      operationType
      status
      summaryObj
      startedAt
      finishedAt
    }
  }
}`

const allOperationRunsQuery = `
{
  allOperationRuns {
    edges {
      node {
        id
        operationType
        status
        startedAt
        finishedAt
      }
    }
  }
}`

// OperationRunUpdate carries the mutable fields of an operation run.
// SummaryObj, when non-empty, must be a JSON document.
type OperationRunUpdate struct {
	Status     string
	SummaryObj string
}

// AddOperationRun records the start of a server-side operation.
func (c *Client) AddOperationRun(ctx context.Context, operationType string) (*OperationRun, error) {
	data, err := c.Execute(ctx, addOperationRunMutation, map[string]any{
		"operationRun": map[string]any{
			"operationType": operationType,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddOperationRun struct {
			OperationRun *OperationRun `json:"operationRun"`
		} `json:"addOperationRun"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddOperationRun.OperationRun == nil {
		return nil, ErrRemote.Msg("response carried no operation run")
	}
	return out.AddOperationRun.OperationRun, nil
}

// GetOperationRun retrieves an operation run by id.
func (c *Client) GetOperationRun(ctx context.Context, runID string) (*OperationRun, error) {
	data, err := c.Execute(ctx, operationRunQuery, map[string]any{"id": runID})
	if err != nil {
		return nil, err
	}
	var out struct {
		OperationRun *OperationRun `json:"operationRun"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.OperationRun == nil {
		return nil, ErrRemote.Msg("response carried no operation run")
	}
	return out.OperationRun, nil
}

// ListOperationRuns retrieves every operation run visible to the session.
func (c *Client) ListOperationRuns(ctx context.Context) ([]OperationRun, error) {
	data, err := c.Execute(ctx, allOperationRunsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllOperationRuns []OperationRun `json:"allOperationRuns"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllOperationRuns, nil
}

// UpdateOperationRun applies an update to an existing operation run. At
// least one field must be set.
func (c *Client) UpdateOperationRun(ctx context.Context, runID string, update OperationRunUpdate) (*OperationRun, error) {
	if update.Status == "" && update.SummaryObj == "" {
		return nil, ErrInvalidArgument.Msg("update requires a status or summary")
	}
	if update.SummaryObj != "" && !gjson.Valid(update.SummaryObj) {
		return nil, ErrInvalidArgument.Msg("operation run summary must be valid JSON")
	}
	input := map[string]any{"id": runID}
	if update.Status != "" {
		input["status"] = update.Status
	}
	if update.SummaryObj != "" {
		input["summaryObj"] = update.SummaryObj
	}
	data, err := c.Execute(ctx, updateOperationRunMutation, map[string]any{"operationRun": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateOperationRun struct {
			OperationRun *OperationRun `json:"operationRun"`
		} `json:"updateOperationRun"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateOperationRun.OperationRun == nil {
		return nil, ErrRemote.Msg("response carried no operation run")
	}
	return out.UpdateOperationRun.OperationRun, nil
}
