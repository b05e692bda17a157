package pair

import (
	"context"
	stdjson "encoding/json"
	"strings"
)

const expectationSuiteQuery = `
query expectationSuiteQuery($id: ID!) {
  expectationSuite(id: $id) {
    id
    autoinspectionStatus
    organization {
      id
    }
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
          expectationSuite {
            id
          }
        }
      }
    }
  }
}`

const addExpectationSuiteMutation = `
mutation addExpectationSuiteMutation($expectationSuite: AddExpectationSuiteInput!) {
  addExpectationSuite(input: $expectationSuite) {
    expectationSuite {
      id
      name
      slug
      autoinspectionStatus
      createdBy {
        id
      }
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
          }
        }
      }
      organization {
        id
      }
    }
  }
}`

const listSuitesQuery = `
query listExpectationSuiteQuery {
  allExpectationSuites {
    edges {
      node {
        id
        name
      }
    }
  }
}`

const listSuitesDetailedQuery = `
query listExpectationSuiteQuery {
  allExpectationSuites {
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
        name
        autoinspectionStatus
        organization {
          id
        }
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
              expectationSuite {
                id
              }
            }
          }
        }
      }
    }
  }
}`

const updateExpectationSuiteMutation = `
mutation($updateExpectationSuite: UpdateExpectationSuiteInput!) {
  updateExpectationSuite(input: $updateExpectationSuite) {
    expectationSuite {
      id
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
            expectationSuite {
              id
            }
          }
        }
      }
    }
  }
}`

// GenerateSlug derives the URL slug the server expects for a display name.
func GenerateSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// ExpectationInput describes an expectation to create on the server.
// ExpectationKwargs must be a JSON document.
type ExpectationInput struct {
	ExpectationType   string
	ExpectationKwargs string
	IsActivated       *bool
}

func (e ExpectationInput) variables() map[string]any {
	v := map[string]any{
		"expectationType":   e.ExpectationType,
		"expectationKwargs": e.ExpectationKwargs,
	}
	if e.IsActivated != nil {
		v["isActivated"] = *e.IsActivated
	}
	return v
}

// ExpectationSuiteUpdate carries the mutable fields of an expectation
// suite. Nil Expectations means no change; a non-nil slice appends to the
// suite rather than replacing its contents.
type ExpectationSuiteUpdate struct {
	AutoinspectionStatus string
	Expectations         []ExpectationInput
}

// AddExpectationSuite creates an empty expectation suite, or one populated
// by autoinspecting an existing dataset. Pass a dataset id if and only if
// autoinspect is set. Callers holding an expectations config want
// AddExpectationSuiteFromConfig.
func (c *Client) AddExpectationSuite(ctx context.Context, name string, autoinspect bool, datasetID string) (*ExpectationSuite, error) {
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
	data, err := c.Execute(ctx, addExpectationSuiteMutation, map[string]any{
		"expectationSuite": map[string]any{
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
		AddExpectationSuite struct {
			ExpectationSuite *ExpectationSuite `json:"expectationSuite"`
		} `json:"addExpectationSuite"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddExpectationSuite.ExpectationSuite == nil {
		return nil, ErrRemote.Msg("response carried no expectation suite")
	}
	return out.AddExpectationSuite.ExpectationSuite, nil
}

// GetExpectationSuite retrieves an expectation suite by id, expectations
// included.
func (c *Client) GetExpectationSuite(ctx context.Context, suiteID string) (*ExpectationSuite, error) {
	data, err := c.Execute(ctx, expectationSuiteQuery, map[string]any{"id": suiteID})
	if err != nil {
		return nil, err
	}
	var out struct {
		ExpectationSuite *ExpectationSuite `json:"expectationSuite"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.ExpectationSuite == nil {
		return nil, ErrRemote.Msg("response carried no expectation suite")
	}
	return out.ExpectationSuite, nil
}

// ListExpectationSuites retrieves every expectation suite. The plain form
// carries ids and names only; detailed pulls each suite's expectations too.
func (c *Client) ListExpectationSuites(ctx context.Context, detailed bool) ([]ExpectationSuite, error) {
	query := listSuitesQuery
	if detailed {
		query = listSuitesDetailedQuery
	}
	data, err := c.Execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		AllExpectationSuites []ExpectationSuite `json:"allExpectationSuites"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	return out.AllExpectationSuites, nil
}

// UpdateExpectationSuite applies an update to an existing suite. At least
// one field must be set.
func (c *Client) UpdateExpectationSuite(ctx context.Context, suiteID string, update ExpectationSuiteUpdate) (*ExpectationSuite, error) {
	if update.AutoinspectionStatus == "" && update.Expectations == nil {
		return nil, ErrInvalidArgument.Msg("update requires an autoinspection status or expectations")
	}
	input := map[string]any{"id": suiteID}
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
	if update.AutoinspectionStatus != "" {
		input["autoinspectionStatus"] = update.AutoinspectionStatus
	}
	data, err := c.Execute(ctx, updateExpectationSuiteMutation, map[string]any{
		"updateExpectationSuite": input,
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateExpectationSuite struct {
			ExpectationSuite *ExpectationSuite `json:"expectationSuite"`
		} `json:"updateExpectationSuite"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateExpectationSuite.ExpectationSuite == nil {
		return nil, ErrRemote.Msg("response carried no expectation suite")
	}
	return out.UpdateExpectationSuite.ExpectationSuite, nil
}

// AddExpectationSuiteFromConfig creates a suite named name and appends the
// expectations of a stored config to it. Two server calls; the create
// mutation does not accept nested expectations.
func (c *Client) AddExpectationSuiteFromConfig(ctx context.Context, name string, config ExpectationsConfig) (*ExpectationSuite, error) {
	suite, err := c.AddExpectationSuite(ctx, name, false, "")
	if err != nil {
		return nil, err
	}
	inputs, err := config.expectationInputs()
	if err != nil {
		return nil, err
	}
	return c.UpdateExpectationSuite(ctx, suite.ID, ExpectationSuiteUpdate{Expectations: inputs})
}

// ExpectationSuiteAsJSON renders a suite's expectations as a sorted,
// two-space-indented JSON document in the expectations-config layout.
// Deactivated expectations are skipped unless includeInactive is set.
func (c *Client) ExpectationSuiteAsJSON(ctx context.Context, suiteID string, includeInactive bool) (string, error) {
	suite, err := c.GetExpectationSuite(ctx, suiteID)
	if err != nil {
		return "", err
	}
	entries, err := expectationEntries(suite.Expectations, includeInactive)
	if err != nil {
		return "", err
	}
	out, err := stdjson.MarshalIndent(map[string]any{"expectations": entries}, "", "  ")
	if err != nil {
		return "", ErrRemote.MsgErr("could not render expectations", err)
	}
	return string(out), nil
}
