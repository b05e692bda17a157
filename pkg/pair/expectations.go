package pair

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

const expectationQuery = `
query expectationQuery($id: ID!) {
  expectation(id: $id) {
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
}`

const addExpectationMutation = `
mutation addExpectationMutation($expectation: AddExpectationInput!) {
  addExpectation(input: $expectation) {
    expectation {
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
}`

const updateExpectationMutation = `
mutation updateExpectationMutation($expectation: UpdateExpectationInput!) {
  updateExpectation(input: $expectation) {
    expectation {
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
}`

// validKwargs checks that kwargs parses as JSON. Content validation is the
// server's job; failures there surface at evaluation time.
func validKwargs(kwargs string) error {
	if !gjson.Valid(kwargs) {
		return ErrInvalidKwargs.Msg(fmt.Sprintf("expectation kwargs must be valid JSON (got %s)", kwargs))
	}
	return nil
}

// ExpectationUpdate carries the mutable fields of an expectation. Zero
// fields are left unchanged; ExpectationKwargs replaces the stored kwargs
// wholesale, so an update must carry its unchanged keys too.
type ExpectationUpdate struct {
	ExpectationType   string
	ExpectationKwargs string
	IsActivated       *bool
}

// GetExpectation retrieves an expectation by id.
func (c *Client) GetExpectation(ctx context.Context, expectationID string) (*Expectation, error) {
	data, err := c.Execute(ctx, expectationQuery, map[string]any{"id": expectationID})
	if err != nil {
		return nil, err
	}
	var out struct {
		Expectation *Expectation `json:"expectation"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.Expectation == nil {
		return nil, ErrRemote.Msg("response carried no expectation")
	}
	return out.Expectation, nil
}

// AddExpectation creates an expectation inside a suite. expectationKwargs
// must be a JSON document.
func (c *Client) AddExpectation(ctx context.Context, suiteID, expectationType, expectationKwargs string) (*Expectation, error) {
	if err := validKwargs(expectationKwargs); err != nil {
		return nil, err
	}
	data, err := c.Execute(ctx, addExpectationMutation, map[string]any{
		"expectation": map[string]any{
			"expectationSuiteId": suiteID,
			"expectationType":    expectationType,
			"expectationKwargs":  expectationKwargs,
		},
	})
	if err != nil {
		return nil, err
	}
	var out struct {
		AddExpectation struct {
			Expectation *Expectation `json:"expectation"`
		} `json:"addExpectation"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.AddExpectation.Expectation == nil {
		return nil, ErrRemote.Msg("response carried no expectation")
	}
	return out.AddExpectation.Expectation, nil
}

// UpdateExpectation applies an update to an existing expectation. At least
// one field must be set.
func (c *Client) UpdateExpectation(ctx context.Context, expectationID string, update ExpectationUpdate) (*Expectation, error) {
	if update.ExpectationType == "" && update.ExpectationKwargs == "" && update.IsActivated == nil {
		return nil, ErrInvalidArgument.Msg("update requires an expectation type, kwargs, or activation flag")
	}
	if update.ExpectationKwargs != "" {
		if err := validKwargs(update.ExpectationKwargs); err != nil {
			return nil, err
		}
	}
	input := map[string]any{"id": expectationID}
	if update.IsActivated != nil {
		input["isActivated"] = *update.IsActivated
	}
	if update.ExpectationType != "" {
		input["expectationType"] = update.ExpectationType
	}
	if update.ExpectationKwargs != "" {
		input["expectationKwargs"] = update.ExpectationKwargs
	}
	data, err := c.Execute(ctx, updateExpectationMutation, map[string]any{"expectation": input})
	if err != nil {
		return nil, err
	}
	var out struct {
		UpdateExpectation struct {
			Expectation *Expectation `json:"expectation"`
		} `json:"updateExpectation"`
	}
	if err := decodeResult(data, &out); err != nil {
		return nil, err
	}
	if out.UpdateExpectation.Expectation == nil {
		return nil, ErrRemote.Msg("response carried no expectation")
	}
	return out.UpdateExpectation.Expectation, nil
}
