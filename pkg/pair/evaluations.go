package pair

import (
	"context"
	"io"
)

const addEvaluationMutation = `
mutation addEvaluationMutation($evaluation: AddEvaluationInput!) {
  addEvaluation(input: $evaluation) {
    evaluation {
      id
      dataset {
        id
      }
      checkpoint {
        id
      }
      createdBy {
        id
      }
      organization {
        id
      }
      results {
        pageInfo {
          hasNextPage
          hasPreviousPage
          startCursor
          endCursor
        }
        edges {
          cursor
          node {
            id
          }
        }
      }
      status
    }
  }
}`

const updateEvaluationMutation = `
mutation($updateEvaluation: UpdateEvaluationInput!) {
  updateEvaluation(input: $updateEvaluation) {
    evaluation {
      id
      datasetId
      checkpointId
      createdById
      createdBy {
        id
      }
      dataset {
        id
        filename
      }
      organizationId
      organization {
        id
      }
      checkpoint {
        id
        name
      }
      results {
        edges {
          cursor
          node {
            id
            success
            summaryObj
            expectationType
            expectationKwargs
            raisedException
            exceptionTraceback
            evaluationId
          }
        }
      }
      status
      updatedAt
    }
  }
}`

const evaluationQuery = `
query evaluationQuery($id: ID!) {
  evaluation(id: $id) {
    id
    status
    dataset {
      id
      filename
    }
    checkpoint {
      id
      name
    }
    createdBy {
      id
    }
    organization {
      id
    }
    results {
      edges {
        node {
          id
          success
          summaryObj
          expectationType
          expectationKwargs
          raisedException
          exceptionTraceback
          evaluationId
        }
      }
    }
    updatedAt
  }
}`

// EvaluationUpdate carries the mutable fields of an evaluation. Nil Results
// means no change.
type EvaluationUpdate struct {
	Status  string
	Results []map[string]any
}

// AddEvaluation queues an evaluation of a checkpoint against a dataset.
// The server runs it asynchronously; poll GetEvaluation for the outcome.
func (c *Client) AddEvaluation(ctx context.Context, datasetID, checkpointID string) (*Evaluation, error) {
	data, err := c.Execute(ctx, addEvaluationMutation, map[string]any{
		"evaluation": map[string]any{
			"datasetId":    datasetID,
			"checkpointId": checkpointID,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddEvaluation struct {
			Evaluation *Evaluation `json:"evaluation"`
		} `json:"addEvaluation"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddEvaluation.Evaluation == nil {
		return nil, ErrRemote.Msg("response carried no evaluation")
	}
	return out.AddEvaluation.Evaluation, nil
}

// GetEvaluation retrieves an evaluation by id, results included.
func (c *Client) GetEvaluation(ctx context.Context, evaluationID string) (*Evaluation, error) {
	data, err := c.Execute(ctx, evaluationQuery, map[string]any{"id": evaluationID})
	if err != nil {
		return nil, err
	}
	var out struct {
		Evaluation *Evaluation `json:"evaluation"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.Evaluation == nil {
		return nil, ErrRemote.Msg("response carried no evaluation")
	}
	return out.Evaluation, nil
}

// UpdateEvaluation applies an update to an existing evaluation. At least
// one field must be set.
func (c *Client) UpdateEvaluation(ctx context.Context, evaluationID string, update EvaluationUpdate) (*Evaluation, error) {
	if update.Status == "" && update.Results == nil {
		return nil, ErrInvalidArgument.Msg("update requires a status or results")
	}
	input := map[string]any{"id": evaluationID}
	if update.Results != nil {
		input["results"] = update.Results
	}
	if update.Status != "" {
		input["status"] = update.Status
	}
	data, err := c.Execute(ctx, updateEvaluationMutation, map[string]any{"updateEvaluation": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateEvaluation struct {
			Evaluation *Evaluation `json:"evaluation"`
		} `json:"updateEvaluation"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateEvaluation.Evaluation == nil {
		return nil, ErrRemote.Msg("response carried no evaluation")
	}
	return out.UpdateEvaluation.Evaluation, nil
}

// EvaluateSuiteOnReader runs an expectation suite against the reader's
// contents: the suite is fetched to confirm it exists and resolve its
// canonical id, the data is registered and uploaded as a dataset, and an
// evaluation is queued over the pair.
func (c *Client) EvaluateSuiteOnReader(ctx context.Context, suiteID string, r io.Reader, projectID, filename string) (*Evaluation, error) {
	suite, err := c.GetExpectationSuite(ctx, suiteID)
	if err != nil {
		return nil, err
	}
	dataset, err := c.AddDatasetFromReader(ctx, r, projectID, filename)
	if err != nil {
		return nil, err
	}
	return c.AddEvaluation(ctx, dataset.ID, suite.ID)
}

// EvaluateSuiteOnRecords is EvaluateSuiteOnReader over CSV-encoded records.
func (c *Client) EvaluateSuiteOnRecords(ctx context.Context, suiteID string, records [][]string, projectID, filename string) (*Evaluation, error) {
	suite, err := c.GetExpectationSuite(ctx, suiteID)
	if err != nil {
		return nil, err
	}
	dataset, err := c.AddDatasetFromRecords(ctx, records, projectID, filename)
	if err != nil {
		return nil, err
	}
	return c.AddEvaluation(ctx, dataset.ID, suite.ID)
}

// EvaluateCheckpointOnReader runs a checkpoint against the reader's
// contents, registering and uploading the data as a dataset first.
func (c *Client) EvaluateCheckpointOnReader(ctx context.Context, checkpointID string, r io.Reader, projectID, filename string) (*Evaluation, error) {
	checkpoint, err := c.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, err
	}
	dataset, err := c.AddDatasetFromReader(ctx, r, projectID, filename)
	if err != nil {
		return nil, err
	}
	return c.AddEvaluation(ctx, dataset.ID, checkpoint.ID)
}
