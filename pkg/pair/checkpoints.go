package pair

import (
	"context"
)

const checkpointQuery = `
query checkpointQuery($id: ID!) {
  checkpoint(id: $id) {
    id
    name
    slug
    isActivated
    createdBy {
      id
      firstName
      lastName
      email
    }
    expectationSuite {
      expectations {
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
            expectationType
            expectationKwargs
            isActivated
            createdBy {
              id
            }
            organization {
              id
            }
          }
        }
      }
    }
  }
}`

const addCheckpointMutation = `
mutation addCheckpointMutation($checkpoint: AddCheckpointInput!) {
  addCheckpoint(input: $checkpoint) {
    checkpoint {
      id
      name
      slug
      isActivated
      createdBy {
        id
      }
      organization {
        id
      }
    }
  }
}`

const updateCheckpointMutation = `
mutation updateCheckpointMutation($updateCheckpoint: UpdateCheckpointInput!) {
  updateCheckpoint(input: $updateCheckpoint) {
    checkpoint {
      id
      name
      slug
      isActivated
      sections {
        edges {
          node {
            id
            name
            slug
            sequenceNumber
            questions {
              edges {
                node {
                  id
                  questionObj
                  sequenceNumber
                  expectation {
                    id
                    expectationType
                    expectationKwargs
                    isActivated
                  }
                }
              }
            }
          }
        }
      }
      expectationSuite {
        id
        expectations {
          edges {
            node {
              id
              expectationType
              expectationKwargs
              isActivated
            }
          }
        }
      }
    }
  }
}`

const listCheckpointsQuery = `
query listCheckpointQuery {
  allCheckpoints {
    edges {
      node {
        id
        name
        slug
        isActivated
      }
    }
  }
}`

// SectionInput describes a section of questions to lay out on a checkpoint.
// An empty Slug is derived from the name.
type SectionInput struct {
	Name           string
	Slug           string
	SequenceNumber int
	Questions      []QuestionInput
}

func (s SectionInput) variables() map[string]any {
	questions := make([]map[string]any, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, q.variables())
	}
	slug := s.Slug
	if slug == "" {
		slug = GenerateSlug(s.Name)
	}
	return map[string]any{
		"name":           s.Name,
		"slug":           slug,
		"sequenceNumber": s.SequenceNumber,
		"questions":      questions,
	}
}

// QuestionInput describes one question inside a section. QuestionObj is a
// JSON document stored as a string; Expectation, when set, is created
// alongside the question.
type QuestionInput struct {
	QuestionObj    string
	SequenceNumber int
	Expectation    *ExpectationInput
}

func (q QuestionInput) variables() map[string]any {
	v := map[string]any{
		"questionObj":    q.QuestionObj,
		"sequenceNumber": q.SequenceNumber,
	}
	if q.Expectation != nil {
		v["expectation"] = q.Expectation.variables()
	}
	return v
}

// CheckpointUpdate carries the mutable fields of a checkpoint. Expectations
// append to the checkpoint's suite; Sections replace the checkpoint's
// section layout wholesale.
type CheckpointUpdate struct {
	AutoinspectionStatus string
	Expectations         []ExpectationInput
	Sections             []SectionInput
}

// AddCheckpoint creates a checkpoint, empty or populated by autoinspecting
// an existing dataset. Pass a dataset id if and only if autoinspect is set.
func (c *Client) AddCheckpoint(ctx context.Context, name string, autoinspect bool, datasetID string) (*Checkpoint, error) {
	if autoinspect && datasetID == "" {
		return nil, ErrInvalidArgument.Msg("a dataset id is required when autoinspecting")
	}
	if !autoinspect && datasetID != "" {
		return nil, ErrInvalidArgument.Msg("a dataset id is only accepted when autoinspecting")
	}
	var dataset any
	if datasetID != "" {
		dataset = datasetID
	}
	data, err := c.Execute(ctx, addCheckpointMutation, map[string]any{
		"checkpoint": map[string]any{
			"name":        name,
			"slug":        GenerateSlug(name),
			"autoinspect": autoinspect,
			"datasetId":   dataset,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddCheckpoint struct {
			Checkpoint *Checkpoint `json:"checkpoint"`
		} `json:"addCheckpoint"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddCheckpoint.Checkpoint == nil {
		return nil, ErrRemote.Msg("response carried no checkpoint")
	}
	return out.AddCheckpoint.Checkpoint, nil
}

// GetCheckpoint retrieves a checkpoint by id, with the expectations of its
// suite.
func (c *Client) GetCheckpoint(ctx context.Context, checkpointID string) (*Checkpoint, error) {
	data, err := c.Execute(ctx, checkpointQuery, map[string]any{"id": checkpointID})
	if err != nil {
		return nil, err
	}
	var out struct {
		Checkpoint *Checkpoint `json:"checkpoint"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.Checkpoint == nil {
		return nil, ErrRemote.Msg("response carried no checkpoint")
	}
	return out.Checkpoint, nil
}

// ListCheckpoints retrieves every checkpoint visible to the session.
func (c *Client) ListCheckpoints(ctx context.Context) ([]Checkpoint, error) {
	data, err := c.Execute(ctx, listCheckpointsQuery, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllCheckpoints []Checkpoint `json:"allCheckpoints"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllCheckpoints, nil
}

// UpdateCheckpoint applies an update to an existing checkpoint. At least
// one field must be set.
func (c *Client) UpdateCheckpoint(ctx context.Context, checkpointID string, update CheckpointUpdate) (*Checkpoint, error) {
	if update.AutoinspectionStatus == "" && update.Expectations == nil && update.Sections == nil {
		return nil, ErrInvalidArgument.Msg("update requires an autoinspection status, expectations, or sections")
	}
	input := map[string]any{"id": checkpointID}
	if update.Expectations != nil {
		list := make([]map[string]any, 0, len(update.Expectations))
		for _, e := range update.Expectations {
			if err := validKwargs(e.ExpectationKwargs); err != nil {
				return nil, err
			}
			list = append(list, e.variables())
		}
		input["expectations"] = list
	}
	if update.Sections != nil {
		list := make([]map[string]any, 0, len(update.Sections))
		for _, s := range update.Sections {
			for _, q := range s.Questions {
				if q.Expectation == nil {
					continue
				}
				if err := validKwargs(q.Expectation.ExpectationKwargs); err != nil {
					return nil, err
				}
			}
			list = append(list, s.variables())
		}
		input["sections"] = list
	}
	if update.AutoinspectionStatus != "" {
		input["autoinspectionStatus"] = update.AutoinspectionStatus
	}
	data, err := c.Execute(ctx, updateCheckpointMutation, map[string]any{"updateCheckpoint": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateCheckpoint struct {
			Checkpoint *Checkpoint `json:"checkpoint"`
		} `json:"updateCheckpoint"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateCheckpoint.Checkpoint == nil {
		return nil, ErrRemote.Msg("response carried no checkpoint")
	}
	return out.UpdateCheckpoint.Checkpoint, nil
}

// AddCheckpointFromConfig creates a checkpoint named name and appends the
// expectations of a stored config to it.
func (c *Client) AddCheckpointFromConfig(ctx context.Context, name string, config ExpectationsConfig) (*Checkpoint, error) {
	checkpoint, err := c.AddCheckpoint(ctx, name, false, "")
	if err != nil {
		return nil, err
	}
	inputs, err := config.expectationInputs()
	if err != nil {
		return nil, err
	}
	return c.UpdateCheckpoint(ctx, checkpoint.ID, CheckpointUpdate{Expectations: inputs})
}

// CheckpointAsExpectationsConfig retrieves a checkpoint and converts its
// suite's expectations into an expectations config. Deactivated
// expectations are skipped unless includeInactive is set.
func (c *Client) CheckpointAsExpectationsConfig(ctx context.Context, checkpointID string, includeInactive bool) (*ExpectationsConfig, error) {
	checkpoint, err := c.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, err
	}
	var expectations []Expectation
	if checkpoint.ExpectationSuite != nil {
		expectations = checkpoint.ExpectationSuite.Expectations
	}
	entries, err := expectationEntries(expectations, includeInactive)
	if err != nil {
		return nil, err
	}
	return &ExpectationsConfig{
		Meta:         map[string]any{engineMetaKey: engineMetaVersion},
		Expectations: entries,
	}, nil
}

// CheckpointAsJSON renders a checkpoint as a sorted, two-space-indented
// expectations config document.
func (c *Client) CheckpointAsJSON(ctx context.Context, checkpointID string, includeInactive bool) (string, error) {
	config, err := c.CheckpointAsExpectationsConfig(ctx, checkpointID, includeInactive)
	if err != nil {
		return "", err
	}
	return config.AsJSONString()
}
