package pair

import (
	"github.com/mitchellh/mapstructure"
)

// Typed views of the GraphQL schema. Relay connection fields are flattened
// into plain slices before decoding, so a field declared []Expectation
// receives the nodes of an expectations connection. Callers that need
// cursors or page info can issue the same document through Execute and walk
// the raw payload.

// Ref is a bare reference to a related object, carrying only its id.
type Ref struct {
	ID string `json:"id"`
}

// User identifies an account on the server.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Dataset is an uploaded tabular file registered for evaluation.
type Dataset struct {
	ID           string `json:"id"`
	Filename     string `json:"filename,omitempty"`
	S3Key        string `json:"s3Key,omitempty"`
	S3URL        string `json:"s3Url,omitempty"`
	Project      *Ref   `json:"project,omitempty"`
	CreatedBy    *User  `json:"createdBy,omitempty"`
	Organization *Ref   `json:"organization,omitempty"`
}

// Expectation is a single assertion about a dataset. ExpectationKwargs is a
// JSON document stored as a string; the server does not validate it, so
// failures surface at evaluation time.
type Expectation struct {
	ID                string `json:"id"`
	ExpectationType   string `json:"expectationType,omitempty"`
	ExpectationKwargs string `json:"expectationKwargs,omitempty"`
	IsActivated       bool   `json:"isActivated"`
	CreatedBy         *User  `json:"createdBy,omitempty"`
	Organization      *Ref   `json:"organization,omitempty"`
	ExpectationSuite  *Ref   `json:"expectationSuite,omitempty"`
}

// ExpectationSuite is a named collection of expectations.
type ExpectationSuite struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name,omitempty"`
	Slug                 string        `json:"slug,omitempty"`
	AutoinspectionStatus string        `json:"autoinspectionStatus,omitempty"`
	CreatedBy            *User         `json:"createdBy,omitempty"`
	Organization         *Ref          `json:"organization,omitempty"`
	Expectations         []Expectation `json:"expectations,omitempty"`
}

// Checkpoint wraps an expectation suite with presentation metadata for
// review workflows.
type Checkpoint struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	Slug             string            `json:"slug,omitempty"`
	IsActivated      bool              `json:"isActivated"`
	CreatedBy        *User             `json:"createdBy,omitempty"`
	Organization     *Ref              `json:"organization,omitempty"`
	ExpectationSuite *ExpectationSuite `json:"expectationSuite,omitempty"`
	Sections         []Section         `json:"sections,omitempty"`
}

// Section groups the questions of a checkpoint into an ordered block.
type Section struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	Slug           string     `json:"slug,omitempty"`
	SequenceNumber int        `json:"sequenceNumber,omitempty"`
	Questions      []Question `json:"questions,omitempty"`
}

// Question pairs a prompt with the expectation that answers it.
// QuestionObj is a JSON document stored as a string.
type Question struct {
	ID             string       `json:"id"`
	QuestionObj    string       `json:"questionObj,omitempty"`
	SequenceNumber int          `json:"sequenceNumber,omitempty"`
	Expectation    *Expectation `json:"expectation,omitempty"`
}

// Evaluation is one run of a checkpoint against a dataset.
type Evaluation struct {
	ID             string             `json:"id"`
	Status         string             `json:"status,omitempty"`
	Dataset        *Dataset           `json:"dataset,omitempty"`
	Checkpoint     *Checkpoint        `json:"checkpoint,omitempty"`
	CreatedBy      *User              `json:"createdBy,omitempty"`
	Organization   *Ref               `json:"organization,omitempty"`
	DatasetID      string             `json:"datasetId,omitempty"`
	CheckpointID   string             `json:"checkpointId,omitempty"`
	CreatedByID    string             `json:"createdById,omitempty"`
	OrganizationID string             `json:"organizationId,omitempty"`
	Results        []EvaluationResult `json:"results,omitempty"`
	UpdatedAt      string             `json:"updatedAt,omitempty"`
}

// EvaluationResult is the outcome of one expectation within an evaluation.
// SummaryObj carries the evaluation engine's summary as a JSON string.
type EvaluationResult struct {
	ID                 string `json:"id"`
	Success            bool   `json:"success"`
	SummaryObj         string `json:"summaryObj,omitempty"`
	ExpectationType    string `json:"expectationType,omitempty"`
	ExpectationKwargs  string `json:"expectationKwargs,omitempty"`
	RaisedException    bool   `json:"raisedException"`
	ExceptionTraceback string `json:"exceptionTraceback,omitempty"`
	EvaluationID       string `json:"evaluationId,omitempty"`
}

// ConfiguredNotification is a delivery rule for evaluation outcomes.
type ConfiguredNotification struct {
	ID               string `json:"id"`
	NotificationType string `json:"notificationType,omitempty"`
	NotifyOn         string `json:"notifyOn,omitempty"`
	Value            string `json:"value,omitempty"`
}

// Sensor watches an external location and registers arriving data.
// Config is a JSON document stored as a string.
type Sensor struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Slug         string `json:"slug,omitempty"`
	SensorType   string `json:"sensorType,omitempty"`
	Config       string `json:"config,omitempty"`
	IsActivated  bool   `json:"isActivated"`
	CreatedBy    *User  `json:"createdBy,omitempty"`
	Organization *Ref   `json:"organization,omitempty"`
}

// DataSource is a connection definition for pulling datasets from an
// external system.
type DataSource struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Slug         string `json:"slug,omitempty"`
	SourceType   string `json:"sourceType,omitempty"`
	Config       string `json:"config,omitempty"`
	IsActivated  bool   `json:"isActivated"`
	Organization *Ref   `json:"organization,omitempty"`
}

// WorkflowEnvironment names a deployment target that workflow runs report
// against.
type WorkflowEnvironment struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Slug         string `json:"slug,omitempty"`
	Config       string `json:"config,omitempty"`
	Organization *Ref   `json:"organization,omitempty"`
}

// WorkflowRun is one execution of a pipeline inside an environment.
type WorkflowRun struct {
	ID                  string `json:"id"`
	Status              string `json:"status,omitempty"`
	WorkflowEnvironment *Ref   `json:"workflowEnvironment,omitempty"`
	StartedAt           string `json:"startedAt,omitempty"`
	FinishedAt          string `json:"finishedAt,omitempty"`
	CreatedBy           *User  `json:"createdBy,omitempty"`
	Organization        *Ref   `json:"organization,omitempty"`
}

// Asset is a stored artifact attached to the organization.
type Asset struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	AssetType    string `json:"assetType,omitempty"`
	S3Key        string `json:"s3Key,omitempty"`
	CreatedBy    *User  `json:"createdBy,omitempty"`
	Organization *Ref   `json:"organization,omitempty"`
}

// OperationRun records a server-side maintenance or ingest operation.
type OperationRun struct {
	ID            string `json:"id"`
	OperationType string `json:"operationType,omitempty"`
	Status        string `json:"status,omitempty"`
	SummaryObj    string `json:"summaryObj,omitempty"`
	StartedAt     string `json:"startedAt,omitempty"`
	FinishedAt    string `json:"finishedAt,omitempty"`
	Organization  *Ref   `json:"organization,omitempty"`
}

// ConfigProperty is a named organization-level setting.
type ConfigProperty struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
}

// PriorityLevel is one step of the organization's triage scale.
type PriorityLevel struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Rank int    `json:"rank,omitempty"`
}

// flattenConnections rewrites Relay connection objects into plain node
// slices, recursively. A map counts as a connection when it has an "edges"
// key and nothing else besides "pageInfo".
func flattenConnections(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if isConnection(val) {
			edges, _ := val["edges"].([]any)
			nodes := make([]any, 0, len(edges))
			for _, e := range edges {
				edge, ok := e.(map[string]any)
				if !ok {
					continue
				}
				nodes = append(nodes, flattenConnections(edge["node"]))
			}
			return nodes
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = flattenConnections(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = flattenConnections(item)
		}
		return out
	default:
		return v
	}
}

func isConnection(m map[string]any) bool {
	edges, ok := m["edges"]
	if !ok {
		return false
	}
	for k := range m {
		if k != "edges" && k != "pageInfo" {
			return false
		}
	}
	if edges == nil {
		return true
	}
	_, isList := edges.([]any)
	return isList
}

// decodeResult flattens connection fields in data and decodes it into dst.
// Numeric Relay ids decode into string fields unchanged.
func decodeResult(data map[string]any, dst any) error {
	if data == nil {
		return ErrRemote.Msg("empty response payload")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err == nil {
		err = dec.Decode(flattenConnections(data))
	}
	if err != nil {
		return ErrRemote.MsgErr("unexpected response shape", err)
	}
	return nil
}
