package pair

import (
	"context"

	"github.com/tidwall/gjson"
)

const workflowEnvironmentQuery = `
query workflowEnvironmentQuery($id: ID!) {
  workflowEnvironment(id: $id) {
    id
    name
    slug
    config
    organization {
      id
    }
  }
}`

const addWorkflowEnvironmentMutation = `
mutation addWorkflowEnvironmentMutation($workflowEnvironment: AddWorkflowEnvironmentInput!) {
  addWorkflowEnvironment(input: $workflowEnvironment) {
    workflowEnvironment {
      id
      name
      slug
      config
      organization {
        id
      }
    }
  }
}`

const updateWorkflowEnvironmentMutation = `
mutation updateWorkflowEnvironmentMutation($workflowEnvironment: UpdateWorkflowEnvironmentInput!) {
  updateWorkflowEnvironment(input: $workflowEnvironment) {
    workflowEnvironment {
      id
      name
      slug
      config
    }
  }
}`

const allWorkflowEnvironmentsQuery = `
{
  allWorkflowEnvironments {
    edges {
      node {
        id
        name
        slug
      }
    }
  }
}`

const workflowRunQuery = `
query workflowRunQuery($id: ID!) {
  workflowRun(id: $id) {
    id
    status
    workflowEnvironment {
      id
    }
    startedAt
    finishedAt
    createdBy {
      id
    }
    organization {
      id
    }
  }
}`

const addWorkflowRunMutation = `
mutation addWorkflowRunMutation($workflowRun: AddWorkflowRunInput!) {
  addWorkflowRun(input: $workflowRun) {
    workflowRun {
      id
      status
      workflowEnvironment {
        id
      }
      startedAt
    }
  }
}`

const updateWorkflowRunMutation = `
mutation updateWorkflowRunMutation($workflowRun: UpdateWorkflowRunInput!) {
  updateWorkflowRun(input: $workflowRun) {
    workflowRun {
      id
      status
      startedAt
      finishedAt
    }
  }
}`

const allWorkflowRunsQuery = `
{
  allWorkflowRuns {
    edges {
      node {
        id
        status
        workflowEnvironment {
          id
        }
        startedAt
        finishedAt
      }
    }
  }
}`

// WorkflowEnvironmentUpdate carries the mutable fields of a workflow
// environment.
type WorkflowEnvironmentUpdate struct {
	Name   string
	Config string
}

// AddWorkflowEnvironment registers a deployment target for workflow runs.
// config, when non-empty, must be a JSON document.
func (c *Client) AddWorkflowEnvironment(ctx context.Context, name, config string) (*WorkflowEnvironment, error) {
	if config != "" && !gjson.Valid(config) {
		return nil, ErrInvalidArgument.Msg("workflow environment config must be valid JSON")
	}
	input := map[string]any{
		"name": name,
		"slug": GenerateSlug(name),
	}
	if config != "" {
		input["config"] = config
	}
	data, err := c.Execute(ctx, addWorkflowEnvironmentMutation, map[string]any{"workflowEnvironment": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddWorkflowEnvironment struct {
			WorkflowEnvironment *WorkflowEnvironment `json:"workflowEnvironment"`
		} `json:"addWorkflowEnvironment"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddWorkflowEnvironment.WorkflowEnvironment == nil {
		return nil, ErrRemote.Msg("response carried no workflow environment")
	}
	return out.AddWorkflowEnvironment.WorkflowEnvironment, nil
}

// GetWorkflowEnvironment retrieves a workflow environment by id.
func (c *Client) GetWorkflowEnvironment(ctx context.Context, environmentID string) (*WorkflowEnvironment, error) {
	data, err := c.Execute(ctx, workflowEnvironmentQuery, map[string]any{"id": environmentID})
	if err != nil {
		return nil, err
	}
	var out struct {
		WorkflowEnvironment *WorkflowEnvironment `json:"workflowEnvironment"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.WorkflowEnvironment == nil {
		return nil, ErrRemote.Msg("response carried no workflow environment")
	}
	return out.WorkflowEnvironment, nil
}

// ListWorkflowEnvironments retrieves every workflow environment.
func (c *Client) ListWorkflowEnvironments(ctx context.Context) ([]WorkflowEnvironment, error) {
	data, err := c.Execute(ctx, allWorkflowEnvironmentsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllWorkflowEnvironments []WorkflowEnvironment `json:"allWorkflowEnvironments"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllWorkflowEnvironments, nil
}

// UpdateWorkflowEnvironment applies an update to an existing workflow
// environment. At least one field must be set.
func (c *Client) UpdateWorkflowEnvironment(ctx context.Context, environmentID string, update WorkflowEnvironmentUpdate) (*WorkflowEnvironment, error) {
	if update.Name == "" && update.Config == "" {
		return nil, ErrInvalidArgument.Msg("update requires a name or config")
	}
	if update.Config != "" && !gjson.Valid(update.Config) {
		return nil, ErrInvalidArgument.Msg("workflow environment config must be valid JSON")
	}
	input := map[string]any{"id": environmentID}
	if update.Name != "" {
		input["name"] = update.Name
		input["slug"] = GenerateSlug(update.Name)
	}
	if update.Config != "" {
		input["config"] = update.Config
	}
	data, err := c.Execute(ctx, updateWorkflowEnvironmentMutation, map[string]any{"workflowEnvironment": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateWorkflowEnvironment struct {
			WorkflowEnvironment *WorkflowEnvironment `json:"workflowEnvironment"`
		} `json:"updateWorkflowEnvironment"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateWorkflowEnvironment.WorkflowEnvironment == nil {
		return nil, ErrRemote.Msg("response carried no workflow environment")
	}
	return out.UpdateWorkflowEnvironment.WorkflowEnvironment, nil
}

// AddWorkflowRun records the start of a pipeline execution inside an
// environment.
func (c *Client) AddWorkflowRun(ctx context.Context, environmentID string) (*WorkflowRun, error) {
	data, err := c.Execute(ctx, addWorkflowRunMutation, map[string]any{
		"workflowRun": map[string]any{
			"workflowEnvironmentId": environmentID,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddWorkflowRun struct {
			WorkflowRun *WorkflowRun `json:"workflowRun"`
		} `json:"addWorkflowRun"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddWorkflowRun.WorkflowRun == nil {
		return nil, ErrRemote.Msg("response carried no workflow run")
	}
	return out.AddWorkflowRun.WorkflowRun, nil
}

// GetWorkflowRun retrieves a workflow run by id.
func (c *Client) GetWorkflowRun(ctx context.Context, runID string) (*WorkflowRun, error) {
	data, err := c.Execute(ctx, workflowRunQuery, map[string]any{"id": runID})
	if err != nil {
		return nil, err
	}
	var out struct {
		WorkflowRun *WorkflowRun `json:"workflowRun"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.WorkflowRun == nil {
		return nil, ErrRemote.Msg("response carried no workflow run")
	}
	return out.WorkflowRun, nil
}

// ListWorkflowRuns retrieves every workflow run visible to the session.
func (c *Client) ListWorkflowRuns(ctx context.Context) ([]WorkflowRun, error) {
	data, err := c.Execute(ctx, allWorkflowRunsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllWorkflowRuns []WorkflowRun `json:"allWorkflowRuns"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllWorkflowRuns, nil
}

// UpdateWorkflowRun records a status transition for a workflow run.
func (c *Client) UpdateWorkflowRun(ctx context.Context, runID, status string) (*WorkflowRun, error) {
	if status == "" {
		return nil, ErrInvalidArgument.Msg("update requires a status")
	}
	data, err := c.Execute(ctx, updateWorkflowRunMutation, map[string]any{
		"workflowRun": map[string]any{
			"id":     runID,
			"status": status,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateWorkflowRun struct {
			WorkflowRun *WorkflowRun `json:"workflowRun"`
		} `json:"updateWorkflowRun"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateWorkflowRun.WorkflowRun == nil {
		return nil, ErrRemote.Msg("response carried no workflow run")
	}
	return out.UpdateWorkflowRun.WorkflowRun, nil
}
