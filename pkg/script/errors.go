package script

import (
	"fmt"
	"net/http"

	"github.com/aretw0/actionbridge/pkg/domain"
)

// Issue is a single validation failure, located by a JSON pointer into the script.
type Issue struct {
	Keyword  string `json:"keyword"`
	DataPath string `json:"dataPath"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	if i.DataPath == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.DataPath, i.Message)
}

// IssueLister is implemented by errors that carry a structured issue list.
type IssueLister interface {
	IssueList() []Issue
}

// ValidationError reports a script that does not conform to the grammar.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	return domain.ErrInvalidScript.Error()
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidScript }

// IssueList implements IssueLister.
func (e *ValidationError) IssueList() []Issue { return e.Issues }

// StatusCode implements domain.StatusCoder.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// EvaluationError is a failure raised by the engine itself while evaluating a
// valid script, such as a $data pointer that resolves to nothing.
type EvaluationError struct {
	Status  int
	Message string
	Issues  []Issue
}

func (e *EvaluationError) Error() string { return e.Message }

// StatusCode implements domain.StatusCoder. Zero means the error has no status.
func (e *EvaluationError) StatusCode() int { return e.Status }

// IssueList implements IssueLister.
func (e *EvaluationError) IssueList() []Issue { return e.Issues }
